package core

import "github.com/cockroachdb/errors"

// Ошибки конвейера. Конфигурационная ошибка прерывает весь запуск,
// остальные две изолируются на уровне отдельного дома.
var (
	ErrConfiguration    = errors.New("invalid pipeline configuration")
	ErrInsufficientData = errors.New("not enough observations for requested lag")
	ErrSingularFit      = errors.New("singular design matrix in VAR fit")
)
