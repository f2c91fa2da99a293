package repository

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sensor_features/internal/domain/model"
)

// FeatureRecorder сохраняет собранную таблицу признаков и диагностику
// по выпавшим домам.
type FeatureRecorder interface {
	SaveFeatures(ctx context.Context, table *model.FeatureTable, diags []model.HomeDiagnostic) error
}

type PostgresFeatureRecorder struct {
	db *sqlx.DB
}

func NewPostgresFeatureRecorder(db *sqlx.DB) *PostgresFeatureRecorder {
	return &PostgresFeatureRecorder{db: db}
}

func (r *PostgresFeatureRecorder) SaveFeatures(
	ctx context.Context,
	table *model.FeatureTable,
	diags []model.HomeDiagnostic,
) error {
	const rowQuery = `
		INSERT INTO home_features (batch_id, home_id, features, recorded_at)
		VALUES ($1, $2, $3, NOW())`
	const diagQuery = `
		INSERT INTO feature_diagnostics (batch_id, home_id, stage, error, recorded_at)
		VALUES ($1, $2, $3, $4, NOW())`

	batchID := uuid.NewString()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	for _, row := range table.Rows {
		// Значения колонок сериализуются в JSON одним полем
		payload, err := json.Marshal(row.Values)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to marshal features for home %s", row.HomeID)
		}
		if _, err := tx.ExecContext(ctx, rowQuery, batchID, row.HomeID, payload); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to insert features for home %s", row.HomeID)
		}
	}
	for _, d := range diags {
		if _, err := tx.ExecContext(ctx, diagQuery, batchID, d.HomeID, d.Stage, d.Err); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to insert diagnostic for home %s", d.HomeID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit feature batch")
	}
	return nil
}
