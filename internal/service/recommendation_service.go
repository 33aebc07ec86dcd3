// backend-go/internal/service/recommendation_service.go
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/forecast"
	"github.com/shelfwise/backend-go/internal/recommend"
	"github.com/shelfwise/backend-go/internal/repository"
)

// RecommendationService narrates the latest forecasts into prioritized
// actions and the daily todo list.
type RecommendationService struct {
	inventory repository.InventoryRepository
	suppliers repository.SupplierRepository
	forecasts repository.ForecastRepository
	narrator  *recommend.Narrator
}

func NewRecommendationService(
	inventory repository.InventoryRepository,
	suppliers repository.SupplierRepository,
	forecasts repository.ForecastRepository,
	narrator *recommend.Narrator,
) *RecommendationService {
	return &RecommendationService{
		inventory: inventory,
		suppliers: suppliers,
		forecasts: forecasts,
		narrator:  narrator,
	}
}

// Recommendations narrates every item that has a stored forecast, ordered
// urgent-first and then by soonest stockout.
func (s *RecommendationService) Recommendations(ctx context.Context, userID string) ([]recommend.Recommendation, error) {
	items, err := s.inventory.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	forecasts, err := s.forecasts.LatestForecasts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load forecasts: %w", err)
	}

	supplierList, err := s.suppliers.ListSuppliers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}

	itemsBySKU := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		itemsBySKU[item.SKU] = item
	}
	suppliersByID := make(map[string]domain.Supplier, len(supplierList))
	for _, sup := range supplierList {
		suppliersByID[sup.ID] = sup
	}

	recs := make([]recommend.Recommendation, 0, len(forecasts))
	for _, f := range forecasts {
		item, ok := itemsBySKU[f.SKU]
		if !ok {
			continue
		}

		var supplier *domain.Supplier
		if item.SupplierID != nil {
			if sup, ok := suppliersByID[*item.SupplierID]; ok {
				supplier = &sup
			}
		}

		recs = append(recs, s.narrator.Recommend(ctx, recommend.Input{
			Item:              item,
			Forecast:          f,
			Supplier:          supplier,
			DaysUntilStockout: forecast.DaysUntilStockout(item.Stock, f.AvgDailySales),
		}))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority.Rank() < recs[j].Priority.Rank()
		}
		di, dj := recs[i].DaysUntilStockout, recs[j].DaysUntilStockout
		if (di < 0) != (dj < 0) {
			return dj < 0
		}
		return di < dj
	})

	return recs, nil
}

// DailyTodos filters the narrated recommendations down to items needing
// attention today.
func (s *RecommendationService) DailyTodos(ctx context.Context, userID string) (*recommend.DailyTodoList, error) {
	recs, err := s.Recommendations(ctx, userID)
	if err != nil {
		return nil, err
	}

	todos := recommend.BuildDailyTodos(recs)
	return &todos, nil
}
