package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"sensor_features/internal/api"
	"sensor_features/internal/core"
	"sensor_features/internal/domain/repository"
	"sensor_features/internal/infrastructure/classifier"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Инициализация репозитория, рекордера и читателя признаков
	var recorder repository.FeatureRecorder
	var store repository.FeatureReader
	saveFeatures := os.Getenv("SAVE_FEATURES") == "true"
	if connStr := os.Getenv("POSTGRES_URL"); connStr != "" {
		postgresRepo := repository.NewPostgresRepository(connStr)
		store = postgresRepo
		if saveFeatures {
			recorder = repository.NewPostgresFeatureRecorder(postgresRepo.DB)
		}
	}

	// Клиент внешнего классификатора
	classifierClient := classifier.NewHTTPClassifierClient(os.Getenv("CLASSIFIER_URL"))

	// Сервис сборки признаков
	featureService := core.NewFeatureService(recorder, saveFeatures, logger)

	// Настройка HTTP-обработчиков
	handler := api.NewHandler(featureService, classifierClient, store, logger)
	http.HandleFunc("/api/features", handler.Features)
	http.HandleFunc("/api/features/latest", handler.LatestFeatures)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Запуск сервера
	logger.Info("starting feature service", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
