package model

import "context"

// ClassifierClient определяет интерфейс для взаимодействия с внешним
// сервисом-классификатором, который потребляет готовую таблицу признаков.
type ClassifierClient interface {
	// Classify отправляет таблицу признаков и возвращает оценку по каждому дому.
	Classify(ctx context.Context, table *FeatureTable) ([]HomeScore, error)
}
