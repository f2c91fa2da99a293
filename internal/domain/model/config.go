package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Config — неизменяемая конфигурация одного запуска конвейера.
// Передаётся явно в точку входа, никаких зашитых значений по месту вызова.
type Config struct {
	Start    time.Time
	End      time.Time
	Interval time.Duration
	Lag      int

	// Подстроки названий комнат, попадающих во временные ряды.
	SeriesLocations []string
	// Имя флага -> подстрока названия комнаты.
	PresencePredicates map[string]string

	// Число воркеров для пообъектной обработки домов; 0 = runtime.NumCPU().
	Workers int
}

// DefaultConfig возвращает параметры по умолчанию.
func DefaultConfig() Config {
	return Config{
		Start:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Interval:        24 * time.Hour,
		Lag:             1,
		SeriesLocations: []string{"kitchen", "lounge", "bedroom", "bathroom", "hall"},
		PresencePredicates: map[string]string{
			"has_conservatory": "conservatory",
			"has_dining_room":  "dining",
			"has_study":        "study",
		},
	}
}

// ParseInterval разбирает строку длительности; помимо стандартных единиц
// поддерживает дни ("1d", "7d"), которых нет в time.ParseDuration.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty interval")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, errors.Wrapf(err, "invalid day interval %q", s)
		}
		if days <= 0 {
			return 0, errors.Newf("interval %q must be positive", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid interval %q", s)
	}
	if d <= 0 {
		return 0, errors.Newf("interval %q must be positive", s)
	}
	return d, nil
}
