package core

import (
	"strings"

	"sensor_features/internal/domain/model"
)

type PresenceExtractor struct{}

// Flags вычисляет булевы признаки наличия комнат по каждому дому.
// Флаг истинен, если хотя бы одно событие дома содержит подстроку предиката
// в названии комнаты. Каждый дом из входа присутствует в результате со всеми
// флагами: дом без совпадений получает false по каждому предикату отдельно,
// а не разом по всей выборке.
func (e *PresenceExtractor) Flags(events []model.Event, predicates map[string]string) map[string]model.PresenceFlags {
	flags := make(map[string]model.PresenceFlags)
	for _, ev := range events {
		hf, ok := flags[ev.HomeID]
		if !ok {
			hf = make(model.PresenceFlags, len(predicates))
			for name := range predicates {
				hf[name] = false
			}
			flags[ev.HomeID] = hf
		}
		for name, substr := range predicates {
			if strings.Contains(ev.Location, substr) {
				hf[name] = true
			}
		}
	}
	return flags
}
