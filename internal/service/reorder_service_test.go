package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/reorder"
)

func newReorderFixture() *ReorderService {
	inventory := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "MUG-01", Name: "Coffee Mug", Stock: 4, SupplierID: strPtr("sup-1"), UnitCost: floatPtr(2.5)},
		{SKU: "LAMP-01", Name: "Desk Lamp", Stock: 100, SupplierID: strPtr("sup-2"), UnitCost: floatPtr(20)},
		{SKU: "ORPHAN-01", Name: "Orphan Widget", Stock: 1, UnitCost: floatPtr(1)},
	}}

	suppliers := &fakeSupplierRepo{suppliers: []domain.Supplier{
		{ID: "sup-1", Name: "Acme Supplies", ContactEmail: "orders@acme.test"},
		{ID: "sup-2", Name: "Zen Wholesale"}, // incomplete: no contact email
	}}

	now := time.Now().UTC()
	forecasts := &fakeForecastRepo{forecasts: []domain.Forecast{
		{ID: "f1", SKU: "MUG-01", AvgDailySales: 2, RecommendedOrder: 20, ForecastQty: 60, CreatedAt: now},
		{ID: "f2", SKU: "LAMP-01", AvgDailySales: 1, RecommendedOrder: 0, ForecastQty: 30, CreatedAt: now},
		{ID: "f3", SKU: "ORPHAN-01", AvgDailySales: 0.5, RecommendedOrder: 5, ForecastQty: 15, CreatedAt: now},
	}}

	return NewReorderService(inventory, suppliers, forecasts)
}

func floatPtr(f float64) *float64 { return &f }

func TestBuildReorderList(t *testing.T) {
	svc := newReorderFixture()

	groups, err := svc.BuildReorderList(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	acme := groups[0]
	if acme.SupplierName != "Acme Supplies" || !acme.CanGeneratePO {
		t.Errorf("first group = %+v, want complete Acme group", acme)
	}
	if len(acme.Items) != 1 {
		t.Fatalf("acme items = %d, want 1", len(acme.Items))
	}

	mug := acme.Items[0]
	if mug.Urgency != domain.UrgencyHigh {
		// 4 units at 2/day stocks out in 2 days.
		t.Errorf("mug urgency = %v, want high", mug.Urgency)
	}
	if mug.DaysUntilStockout != 2 {
		t.Errorf("DaysUntilStockout = %v, want 2", mug.DaysUntilStockout)
	}
	if mug.UnitCost != 2.5 {
		t.Errorf("UnitCost = %v, want 2.5", mug.UnitCost)
	}

	zen := groups[1]
	if zen.CanGeneratePO {
		t.Error("supplier without contact email must not allow PO")
	}

	unassigned := groups[2]
	if unassigned.SupplierID != nil || unassigned.CanGeneratePO {
		t.Errorf("last group = %+v, want unassigned bucket without PO", unassigned)
	}
}

func TestGeneratePurchaseOrder(t *testing.T) {
	svc := newReorderFixture()
	ctx := context.Background()

	po, err := svc.GeneratePurchaseOrder(ctx, "user-1", "sup-1")
	if err != nil {
		t.Fatal(err)
	}
	if po.SupplierName != "Acme Supplies" || len(po.Lines) != 1 {
		t.Errorf("po = %+v, want one Acme line", po)
	}
	if po.Lines[0].Quantity != 20 {
		t.Errorf("line quantity = %d, want 20", po.Lines[0].Quantity)
	}
}

func TestGeneratePurchaseOrderIncompleteSupplier(t *testing.T) {
	svc := newReorderFixture()

	_, err := svc.GeneratePurchaseOrder(context.Background(), "user-1", "sup-2")
	var incomplete *reorder.IncompleteSupplierError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error = %v, want IncompleteSupplierError", err)
	}
}

func TestGeneratePurchaseOrderUnknownSupplier(t *testing.T) {
	svc := newReorderFixture()
	if _, err := svc.GeneratePurchaseOrder(context.Background(), "user-1", "sup-404"); err == nil {
		t.Fatal("expected error for supplier with no recommendations")
	}
}
