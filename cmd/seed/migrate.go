// backend-go/cmd/seed/migrate.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		supplier_id TEXT,
		unit_cost DOUBLE PRECISION,
		lead_time_days INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, sku)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_records (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		sku TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DOUBLE PRECISION,
		sold_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_user_sku_sold_at
		ON sales_records (user_id, sku, sold_at)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		contact_email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lead_time_days INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cleanup_issues (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		issue_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		affected_skus TEXT[] NOT NULL DEFAULT '{}',
		suggested_action TEXT NOT NULL DEFAULT '',
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cleanup_issues_user
		ON cleanup_issues (user_id)`,
	`CREATE TABLE IF NOT EXISTS forecasts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		sku TEXT NOT NULL,
		horizon_days INTEGER NOT NULL,
		forecast_qty DOUBLE PRECISION NOT NULL,
		avg_daily_sales DOUBLE PRECISION NOT NULL,
		confidence_score DOUBLE PRECISION NOT NULL,
		trend TEXT NOT NULL,
		seasonality_detected BOOLEAN NOT NULL DEFAULT FALSE,
		recommended_order INTEGER NOT NULL,
		data_quality_score DOUBLE PRECISION NOT NULL,
		model_used TEXT NOT NULL,
		current_stock INTEGER NOT NULL,
		lead_time_days INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forecasts_user_sku_created
		ON forecasts (user_id, sku, created_at DESC)`,
}

func runMigrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	log.Println("schema is up to date")
	return nil
}
