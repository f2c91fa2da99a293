package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sensor_features/internal/core"
	"sensor_features/internal/domain/model"
	"sensor_features/internal/domain/repository"

	"github.com/cockroachdb/errors"
)

type Handler struct {
	service    *core.FeatureService
	classifier model.ClassifierClient
	store      repository.FeatureReader
	logger     *zap.Logger
}

func NewHandler(service *core.FeatureService, classifier model.ClassifierClient, store repository.FeatureReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, classifier: classifier, store: store, logger: logger}
}

// FeaturesRequest — события плюс переопределения конфигурации по умолчанию.
type FeaturesRequest struct {
	Events []model.Event `json:"events"`

	Start           string   `json:"start,omitempty"`    // "2006-01-02"
	End             string   `json:"end,omitempty"`      // "2006-01-02"
	Interval        string   `json:"interval,omitempty"` // "1d", "5h"
	Lag             int      `json:"lag,omitempty"`
	SeriesLocations []string `json:"series_locations,omitempty"`

	// Имя флага -> подстрока названия комнаты.
	PresencePredicates map[string]string `json:"presence_predicates,omitempty"`
	Workers            int               `json:"workers,omitempty"`

	// Прогнать готовую таблицу через внешний классификатор.
	Classify bool `json:"classify,omitempty"`
}

type FeaturesResponse struct {
	Columns     []string               `json:"columns"`
	Rows        []model.FeatureRow     `json:"rows"`
	Diagnostics []model.HomeDiagnostic `json:"diagnostics,omitempty"`
	Scores      []model.HomeScore      `json:"scores,omitempty"`
}

// Features обрабатывает POST /api/features.
func (h *Handler) Features(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FeaturesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := configFromRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, diags, err := h.service.Assemble(r.Context(), req.Events, cfg)
	if err != nil {
		if errors.Is(err, core.ErrConfiguration) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("feature assembly failed", zap.Error(err))
		http.Error(w, "Failed to assemble features", http.StatusInternalServerError)
		return
	}

	resp := FeaturesResponse{
		Columns:     table.Columns,
		Rows:        table.Rows,
		Diagnostics: diags,
	}

	if req.Classify && h.classifier != nil && len(table.Rows) > 0 {
		scores, err := h.classifier.Classify(r.Context(), table)
		if err != nil {
			h.logger.Error("classifier call failed", zap.Error(err))
			http.Error(w, "Classifier unavailable", http.StatusBadGateway)
			return
		}
		resp.Scores = scores
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// LatestFeatures обрабатывает GET /api/features/latest?home_id=...:
// возвращает последнюю сохранённую строку признаков дома.
func (h *Handler) LatestFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.Error(w, "Feature storage is not configured", http.StatusNotImplemented)
		return
	}

	homeID := r.URL.Query().Get("home_id")
	if homeID == "" {
		http.Error(w, "home_id is required", http.StatusBadRequest)
		return
	}

	row, err := h.store.GetLatestFeatures(r.Context(), homeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No features recorded for home", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load features", zap.String("home_id", homeID), zap.Error(err))
		http.Error(w, "Failed to load features", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(row); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// configFromRequest накладывает переопределения запроса на конфигурацию
// по умолчанию.
func configFromRequest(req FeaturesRequest) (model.Config, error) {
	cfg := model.DefaultConfig()

	if req.Start != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Start, time.UTC)
		if err != nil {
			return model.Config{}, errors.Wrapf(err, "invalid start date %q", req.Start)
		}
		cfg.Start = t
	}
	if req.End != "" {
		t, err := time.ParseInLocation("2006-01-02", req.End, time.UTC)
		if err != nil {
			return model.Config{}, errors.Wrapf(err, "invalid end date %q", req.End)
		}
		cfg.End = t
	}
	if req.Interval != "" {
		d, err := model.ParseInterval(req.Interval)
		if err != nil {
			return model.Config{}, err
		}
		cfg.Interval = d
	}
	if req.Lag != 0 {
		cfg.Lag = req.Lag
	}
	if len(req.SeriesLocations) > 0 {
		cfg.SeriesLocations = req.SeriesLocations
	}
	if len(req.PresencePredicates) > 0 {
		cfg.PresencePredicates = req.PresencePredicates
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	return cfg, nil
}
