// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

// All reads and writes are scoped by an opaque user identifier supplied by
// the (out-of-scope) auth layer.

type InventoryRepository interface {
	ListItems(ctx context.Context, userID string) ([]domain.InventoryItem, error)
	GetItem(ctx context.Context, userID, sku string) (*domain.InventoryItem, error)
	UpsertItems(ctx context.Context, userID string, items []domain.InventoryItem) error
}

type SalesRepository interface {
	ListSales(ctx context.Context, userID string) ([]domain.SalesRecord, error)
	ListSalesBySKU(ctx context.Context, userID, sku string) ([]domain.SalesRecord, error)
	InsertSales(ctx context.Context, userID string, records []domain.SalesRecord) error
}

type SupplierRepository interface {
	ListSuppliers(ctx context.Context, userID string) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, userID, id string) (*domain.Supplier, error)
	UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error
}

type IssueRepository interface {
	ListIssues(ctx context.Context, userID string) ([]domain.CleanupIssue, error)
	// ReplaceIssues atomically deletes all issue rows for the user and
	// inserts the new scan's set.
	ReplaceIssues(ctx context.Context, userID string, issues []domain.CleanupIssue) error
	// ResolveIssues marks the given ids resolved and returns how many rows
	// actually changed.
	ResolveIssues(ctx context.Context, userID string, ids []string) (int64, error)
}

type ForecastRepository interface {
	InsertForecasts(ctx context.Context, forecasts []domain.Forecast) error
	// LatestForecasts returns the newest row per SKU for the user.
	LatestForecasts(ctx context.Context, userID string) ([]domain.Forecast, error)
	LatestForecastBySKU(ctx context.Context, userID, sku string) (*domain.Forecast, error)
	// PruneForecasts deletes superseded rows created before the cutoff,
	// always keeping the newest row per user and SKU.
	PruneForecasts(ctx context.Context, before time.Time) (int64, error)
}
