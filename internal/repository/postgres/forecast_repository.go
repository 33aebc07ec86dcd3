// backend-go/internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) InsertForecasts(ctx context.Context, forecasts []domain.Forecast) error {
	if len(forecasts) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO forecasts (
				id, user_id, sku, horizon_days, forecast_qty, avg_daily_sales,
				confidence_score, trend, seasonality_detected, recommended_order,
				data_quality_score, model_used, current_stock, lead_time_days, created_at
			) VALUES (
				:id, :user_id, :sku, :horizon_days, :forecast_qty, :avg_daily_sales,
				:confidence_score, :trend, :seasonality_detected, :recommended_order,
				:data_quality_score, :model_used, :current_stock, :lead_time_days, :created_at
			)`

		for i := range forecasts {
			if _, err := tx.NamedExecContext(ctx, query, forecasts[i]); err != nil {
				return fmt.Errorf("insert forecast for %s: %w", forecasts[i].SKU, err)
			}
		}
		return nil
	})
}

func (r *forecastRepository) LatestForecasts(ctx context.Context, userID string) ([]domain.Forecast, error) {
	query := `
		SELECT DISTINCT ON (sku)
			id, user_id, sku, horizon_days, forecast_qty, avg_daily_sales,
			confidence_score, trend, seasonality_detected, recommended_order,
			data_quality_score, model_used, current_stock, lead_time_days, created_at
		FROM forecasts
		WHERE user_id = $1
		ORDER BY sku, created_at DESC`

	forecasts := []domain.Forecast{}
	if err := r.db.SelectContext(ctx, &forecasts, query, userID); err != nil {
		return nil, fmt.Errorf("list latest forecasts: %w", err)
	}
	return forecasts, nil
}

func (r *forecastRepository) LatestForecastBySKU(ctx context.Context, userID, sku string) (*domain.Forecast, error) {
	query := `
		SELECT id, user_id, sku, horizon_days, forecast_qty, avg_daily_sales,
			confidence_score, trend, seasonality_detected, recommended_order,
			data_quality_score, model_used, current_stock, lead_time_days, created_at
		FROM forecasts
		WHERE user_id = $1 AND sku = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var f domain.Forecast
	if err := r.db.GetContext(ctx, &f, query, userID, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest forecast for %s: %w", sku, err)
	}
	return &f, nil
}

func (r *forecastRepository) PruneForecasts(ctx context.Context, before time.Time) (int64, error) {
	// Keep the newest row per user and SKU even when it predates the cutoff.
	query := `
		DELETE FROM forecasts
		WHERE created_at < $1
		  AND id NOT IN (
			SELECT DISTINCT ON (user_id, sku) id
			FROM forecasts
			ORDER BY user_id, sku, created_at DESC
		  )`

	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("prune forecasts: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune forecasts rows affected: %w", err)
	}
	return affected, nil
}
