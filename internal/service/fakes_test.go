package service

import (
	"context"
	"sort"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

// In-memory repository fakes shared by the service tests.

type fakeInventoryRepo struct {
	items []domain.InventoryItem
}

func (f *fakeInventoryRepo) ListItems(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	return f.items, nil
}

func (f *fakeInventoryRepo) GetItem(ctx context.Context, userID, sku string) (*domain.InventoryItem, error) {
	for i := range f.items {
		if f.items[i].SKU == sku {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakeInventoryRepo) UpsertItems(ctx context.Context, userID string, items []domain.InventoryItem) error {
	f.items = append(f.items, items...)
	return nil
}

type fakeSalesRepo struct {
	records []domain.SalesRecord
}

func (f *fakeSalesRepo) ListSales(ctx context.Context, userID string) ([]domain.SalesRecord, error) {
	return f.records, nil
}

func (f *fakeSalesRepo) ListSalesBySKU(ctx context.Context, userID, sku string) ([]domain.SalesRecord, error) {
	var out []domain.SalesRecord
	for _, r := range f.records {
		if r.SKU == sku {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) InsertSales(ctx context.Context, userID string, records []domain.SalesRecord) error {
	f.records = append(f.records, records...)
	return nil
}

type fakeIssueRepo struct {
	issues []domain.CleanupIssue
}

func (f *fakeIssueRepo) ListIssues(ctx context.Context, userID string) ([]domain.CleanupIssue, error) {
	return f.issues, nil
}

func (f *fakeIssueRepo) ReplaceIssues(ctx context.Context, userID string, issues []domain.CleanupIssue) error {
	f.issues = append([]domain.CleanupIssue(nil), issues...)
	return nil
}

func (f *fakeIssueRepo) ResolveIssues(ctx context.Context, userID string, ids []string) (int64, error) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var resolved int64
	for i := range f.issues {
		if idSet[f.issues[i].ID] && !f.issues[i].Resolved {
			f.issues[i].Resolved = true
			resolved++
		}
	}
	return resolved, nil
}

type fakeForecastRepo struct {
	forecasts []domain.Forecast
}

func (f *fakeForecastRepo) InsertForecasts(ctx context.Context, forecasts []domain.Forecast) error {
	f.forecasts = append(f.forecasts, forecasts...)
	return nil
}

func (f *fakeForecastRepo) LatestForecasts(ctx context.Context, userID string) ([]domain.Forecast, error) {
	latest := make(map[string]domain.Forecast)
	for _, fc := range f.forecasts {
		if prev, ok := latest[fc.SKU]; !ok || fc.CreatedAt.After(prev.CreatedAt) {
			latest[fc.SKU] = fc
		}
	}

	out := make([]domain.Forecast, 0, len(latest))
	for _, fc := range latest {
		out = append(out, fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (f *fakeForecastRepo) LatestForecastBySKU(ctx context.Context, userID, sku string) (*domain.Forecast, error) {
	all, _ := f.LatestForecasts(ctx, userID)
	for i := range all {
		if all[i].SKU == sku {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (f *fakeForecastRepo) PruneForecasts(ctx context.Context, before time.Time) (int64, error) {
	keep := make(map[string]domain.Forecast)
	for _, fc := range f.forecasts {
		if prev, ok := keep[fc.SKU]; !ok || fc.CreatedAt.After(prev.CreatedAt) {
			keep[fc.SKU] = fc
		}
	}

	var kept []domain.Forecast
	var pruned int64
	for _, fc := range f.forecasts {
		newest := keep[fc.SKU]
		if fc.CreatedAt.Before(before) && fc.ID != newest.ID {
			pruned++
			continue
		}
		kept = append(kept, fc)
	}
	f.forecasts = kept
	return pruned, nil
}

type fakeSupplierRepo struct {
	suppliers []domain.Supplier
}

func (f *fakeSupplierRepo) ListSuppliers(ctx context.Context, userID string) ([]domain.Supplier, error) {
	return f.suppliers, nil
}

func (f *fakeSupplierRepo) GetSupplier(ctx context.Context, userID, id string) (*domain.Supplier, error) {
	for i := range f.suppliers {
		if f.suppliers[i].ID == id {
			return &f.suppliers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSupplierRepo) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error {
	f.suppliers = append(f.suppliers, *supplier)
	return nil
}
