package model

import "time"

// Event — одно событие датчика движения в конкретной комнате дома.
type Event struct {
	EventID  string    `json:"event_id"`
	HomeID   string    `json:"home_id"`
	Location string    `json:"location"`
	Datetime time.Time `json:"datetime"`
}

// CountPoint — число событий в интервале, начинающемся в Datetime.
type CountPoint struct {
	Datetime   time.Time `json:"datetime"`
	EventCount int       `json:"event_count"`
}

// CoefficientKey идентифицирует один коэффициент VAR-модели:
// регрессор ("const" или "L<k>.<location>") и целевая комната.
type CoefficientKey struct {
	Regressor string
	Target    string
}

type CoefficientMatrix map[CoefficientKey]float64

// PresenceFlags — булевы признаки наличия комнат, ключ = имя флага.
type PresenceFlags map[string]bool

// FeatureRow — одна строка итоговой таблицы признаков.
// Values содержит значение для каждой колонки таблицы (флаги как 0/1).
type FeatureRow struct {
	HomeID string             `json:"home_id"`
	Values map[string]float64 `json:"values"`
}

// FeatureTable — плотная таблица: одна строка на дом, общий набор колонок.
type FeatureTable struct {
	Columns []string     `json:"columns"`
	Rows    []FeatureRow `json:"rows"`
}

// HomeDiagnostic фиксирует, почему дом выпал из таблицы.
type HomeDiagnostic struct {
	HomeID string `json:"home_id"`
	Stage  string `json:"stage"`
	Err    string `json:"error"`
}

// HomeScore — ответ внешнего классификатора по одному дому.
type HomeScore struct {
	HomeID string  `json:"home_id"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
}
