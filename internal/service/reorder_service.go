// backend-go/internal/service/reorder_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/forecast"
	"github.com/shelfwise/backend-go/internal/reorder"
	"github.com/shelfwise/backend-go/internal/repository"
)

// ReorderService turns stored forecasts into supplier-grouped reorder
// recommendations and purchase order drafts.
type ReorderService struct {
	inventory repository.InventoryRepository
	suppliers repository.SupplierRepository
	forecasts repository.ForecastRepository
}

func NewReorderService(
	inventory repository.InventoryRepository,
	suppliers repository.SupplierRepository,
	forecasts repository.ForecastRepository,
) *ReorderService {
	return &ReorderService{
		inventory: inventory,
		suppliers: suppliers,
		forecasts: forecasts,
	}
}

// BuildReorderList assembles the supplier-grouped reorder view from the
// latest forecast per SKU. Items without a stored forecast are left out;
// they surface through the batch run's insufficient-data list instead.
func (s *ReorderService) BuildReorderList(ctx context.Context, userID string) ([]domain.SupplierReorderGroup, error) {
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

	recs := make(map[string]domain.ReorderRecommendation, len(forecasts))
	for _, f := range forecasts {
		item, ok := itemsBySKU[f.SKU]
		if !ok {
			continue
		}

		days := forecast.DaysUntilStockout(item.Stock, f.AvgDailySales)

		unitCost := 0.0
		if item.UnitCost != nil {
			unitCost = *item.UnitCost
		}

		recs[f.SKU] = domain.ReorderRecommendation{
			SKU:               f.SKU,
			Name:              item.Name,
			CurrentStock:      item.Stock,
			ForecastedDemand:  f.ForecastQty,
			RecommendedOrder:  f.RecommendedOrder,
			DaysUntilStockout: days,
			Urgency:           reorder.Urgency(item.Stock, days),
			UnitCost:          unitCost,
		}
	}

	suppliersByID := make(map[string]domain.Supplier, len(supplierList))
	for _, sup := range supplierList {
		suppliersByID[sup.ID] = sup
	}

	return reorder.GroupBySupplier(items, recs, suppliersByID), nil
}

// GeneratePurchaseOrder builds a PO draft for one supplier's group. It
// fails with IncompleteSupplierError when the supplier record is missing
// required contact fields.
func (s *ReorderService) GeneratePurchaseOrder(ctx context.Context, userID, supplierID string) (*reorder.PurchaseOrder, error) {
	groups, err := s.BuildReorderList(ctx, userID)
	if err != nil {
		return nil, err
	}

	var group *domain.SupplierReorderGroup
	for i := range groups {
		if groups[i].SupplierID != nil && *groups[i].SupplierID == supplierID {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		return nil, fmt.Errorf("no reorder recommendations for supplier %s", supplierID)
	}

	supplier, err := s.suppliers.GetSupplier(ctx, userID, supplierID)
	if err != nil {
		return nil, err
	}

	return reorder.BuildPurchaseOrder(*group, supplier, time.Now().UTC())
}
