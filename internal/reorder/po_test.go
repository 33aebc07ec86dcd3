package reorder

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shelfwise/backend-go/internal/domain"
)

var poNow = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func TestBuildPurchaseOrder(t *testing.T) {
	supplier := &domain.Supplier{
		ID:           "sup-1",
		Name:         "Acme Supplies",
		ContactEmail: "orders@acme.test",
	}
	group := domain.SupplierReorderGroup{
		SupplierName: "Acme Supplies",
		Items: []domain.ReorderRecommendation{
			{SKU: "A", Name: "Alpha", RecommendedOrder: 10, UnitCost: 2.5},
			{SKU: "B", Name: "Beta", RecommendedOrder: 0, UnitCost: 1.0}, // skipped
			{SKU: "C", Name: "Gamma", RecommendedOrder: 3, UnitCost: 0.1},
		},
	}

	po, err := BuildPurchaseOrder(group, supplier, poNow)
	if err != nil {
		t.Fatal(err)
	}

	if len(po.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (zero-quantity line skipped)", len(po.Lines))
	}
	if po.TotalUnits != 13 {
		t.Errorf("TotalUnits = %d, want 13", po.TotalUnits)
	}

	// 10*2.5 + 3*0.1 = 25.3 exactly, no float drift.
	want := decimal.RequireFromString("25.3")
	if !po.TotalCost.Equal(want) {
		t.Errorf("TotalCost = %s, want %s", po.TotalCost, want)
	}
	if po.SupplierEmail != "orders@acme.test" {
		t.Errorf("SupplierEmail = %q", po.SupplierEmail)
	}
	if !po.CreatedAt.Equal(poNow) {
		t.Errorf("CreatedAt = %v, want %v", po.CreatedAt, poNow)
	}
}

func TestBuildPurchaseOrderIncompleteSupplier(t *testing.T) {
	group := domain.SupplierReorderGroup{
		SupplierName: "Zen Wholesale",
		Items: []domain.ReorderRecommendation{
			{SKU: "A", RecommendedOrder: 5, UnitCost: 1},
		},
	}

	_, err := BuildPurchaseOrder(group, &domain.Supplier{Name: "Zen Wholesale"}, poNow)
	if err == nil {
		t.Fatal("expected error for supplier without contact email")
	}

	var incomplete *IncompleteSupplierError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type = %T, want *IncompleteSupplierError", err)
	}
	if incomplete.SupplierName != "Zen Wholesale" {
		t.Errorf("SupplierName = %q", incomplete.SupplierName)
	}
	if len(incomplete.MissingFields) != 1 || incomplete.MissingFields[0] != "contact_email" {
		t.Errorf("MissingFields = %v, want [contact_email]", incomplete.MissingFields)
	}
}

func TestBuildPurchaseOrderNilSupplier(t *testing.T) {
	group := domain.SupplierReorderGroup{SupplierName: UnassignedSupplier}

	_, err := BuildPurchaseOrder(group, nil, poNow)
	var incomplete *IncompleteSupplierError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type = %T, want *IncompleteSupplierError", err)
	}
	if len(incomplete.MissingFields) != 2 {
		t.Errorf("MissingFields = %v, want both fields", incomplete.MissingFields)
	}
}

func TestBuildPurchaseOrderNothingToOrder(t *testing.T) {
	supplier := &domain.Supplier{Name: "Acme", ContactEmail: "a@a.test"}
	group := domain.SupplierReorderGroup{
		Items: []domain.ReorderRecommendation{
			{SKU: "A", RecommendedOrder: 0},
		},
	}

	if _, err := BuildPurchaseOrder(group, supplier, poNow); err == nil {
		t.Fatal("expected error when no line has a positive quantity")
	}
}
