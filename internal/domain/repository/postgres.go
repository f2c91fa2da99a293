package repository

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sensor_features/internal/domain/model"
)

// FeatureReader отдаёт сохранённые строки признаков.
type FeatureReader interface {
	GetLatestFeatures(ctx context.Context, homeID string) (model.FeatureRow, error)
}

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(connStr string) *PostgresRepository {
	db := sqlx.MustConnect("postgres", connStr)
	return &PostgresRepository{DB: db}
}

// featureRecord — строка таблицы home_features.
type featureRecord struct {
	HomeID   string `db:"home_id"`
	BatchID  string `db:"batch_id"`
	Features []byte `db:"features"`
}

// GetLatestFeatures возвращает последнюю сохранённую строку признаков дома.
func (r *PostgresRepository) GetLatestFeatures(ctx context.Context, homeID string) (model.FeatureRow, error) {
	const query = `
		SELECT home_id, batch_id, features
		FROM home_features
		WHERE home_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`

	var rec featureRecord
	if err := r.DB.GetContext(ctx, &rec, query, homeID); err != nil {
		return model.FeatureRow{}, errors.Wrapf(err, "failed to query features for home %s", homeID)
	}

	row := model.FeatureRow{HomeID: rec.HomeID}
	if err := json.Unmarshal(rec.Features, &row.Values); err != nil {
		return model.FeatureRow{}, errors.Wrapf(err, "corrupt features payload for home %s", homeID)
	}
	return row, nil
}
