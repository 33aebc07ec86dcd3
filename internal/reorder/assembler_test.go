package reorder

import (
	"testing"

	"github.com/shelfwise/backend-go/internal/domain"
)

func TestUrgency(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		days  float64
		want  domain.Urgency
	}{
		{"zero stock", 0, 100, domain.UrgencyHigh},
		{"negative stock", -1, 100, domain.UrgencyHigh},
		{"stocks out tomorrow", 5, 1, domain.UrgencyHigh},
		{"boundary three days", 5, 3, domain.UrgencyHigh},
		{"five days", 5, 5, domain.UrgencyMedium},
		{"boundary seven days", 5, 7, domain.UrgencyMedium},
		{"comfortable", 5, 20, domain.UrgencyLow},
		{"no stockout projected", 5, -1, domain.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.stock, tt.days); got != tt.want {
				t.Errorf("Urgency(%d, %v) = %v, want %v", tt.stock, tt.days, got, tt.want)
			}
		})
	}
}

func TestSupplierMissingFields(t *testing.T) {
	if got := SupplierMissingFields(nil); len(got) != 2 {
		t.Errorf("nil supplier missing = %v, want name and contact_email", got)
	}

	complete := &domain.Supplier{Name: "Acme", ContactEmail: "orders@acme.test"}
	if got := SupplierMissingFields(complete); len(got) != 0 {
		t.Errorf("complete supplier missing = %v, want none", got)
	}

	noEmail := &domain.Supplier{Name: "Acme"}
	got := SupplierMissingFields(noEmail)
	if len(got) != 1 || got[0] != "contact_email" {
		t.Errorf("missing = %v, want [contact_email]", got)
	}
}

func groupFixture() ([]domain.InventoryItem, map[string]domain.ReorderRecommendation, map[string]domain.Supplier) {
	acme := "sup-acme"
	zen := "sup-zen"
	items := []domain.InventoryItem{
		{SKU: "A", Name: "Alpha", SupplierID: &acme},
		{SKU: "B", Name: "Beta", SupplierID: &acme},
		{SKU: "C", Name: "Gamma", SupplierID: &zen},
		{SKU: "D", Name: "Delta"},
	}
	recs := map[string]domain.ReorderRecommendation{
		"A": {SKU: "A", Name: "Alpha", RecommendedOrder: 10, UnitCost: 2.5},
		"B": {SKU: "B", Name: "Beta", RecommendedOrder: 4, UnitCost: 1.0},
		"C": {SKU: "C", Name: "Gamma", RecommendedOrder: 6, UnitCost: 3.0},
		"D": {SKU: "D", Name: "Delta", RecommendedOrder: 2, UnitCost: 5.0},
	}
	suppliers := map[string]domain.Supplier{
		acme: {ID: acme, Name: "Acme Supplies", ContactEmail: "orders@acme.test"},
		zen:  {ID: zen, Name: "Zen Wholesale"}, // no contact email
	}
	return items, recs, suppliers
}

func TestGroupBySupplier(t *testing.T) {
	items, recs, suppliers := groupFixture()

	groups := GroupBySupplier(items, recs, suppliers)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %+v", len(groups), groups)
	}

	// Named suppliers alphabetical, unassigned last.
	if groups[0].SupplierName != "Acme Supplies" {
		t.Errorf("first group = %q, want Acme Supplies", groups[0].SupplierName)
	}
	if groups[1].SupplierName != "Zen Wholesale" {
		t.Errorf("second group = %q, want Zen Wholesale", groups[1].SupplierName)
	}
	if groups[2].SupplierID != nil || groups[2].SupplierName != UnassignedSupplier {
		t.Errorf("last group = %+v, want unassigned bucket", groups[2])
	}

	if !groups[0].CanGeneratePO {
		t.Error("complete supplier should allow PO generation")
	}
	if groups[1].CanGeneratePO {
		t.Error("supplier without contact email must not allow PO generation")
	}
	if len(groups[1].MissingFields) != 1 || groups[1].MissingFields[0] != "contact_email" {
		t.Errorf("missing fields = %v, want [contact_email]", groups[1].MissingFields)
	}
	if groups[2].CanGeneratePO {
		t.Error("unassigned bucket must never allow PO generation")
	}

	if len(groups[0].Items) != 2 {
		t.Errorf("acme group has %d items, want 2", len(groups[0].Items))
	}
	if groups[0].Items[0].SKU != "A" || groups[0].Items[1].SKU != "B" {
		t.Errorf("acme items not sorted by sku: %+v", groups[0].Items)
	}
}

func TestGroupBySupplierSkipsItemsWithoutRecommendations(t *testing.T) {
	acme := "sup-acme"
	items := []domain.InventoryItem{
		{SKU: "A", Name: "Alpha", SupplierID: &acme},
		{SKU: "B", Name: "Beta", SupplierID: &acme},
	}
	recs := map[string]domain.ReorderRecommendation{
		"A": {SKU: "A", RecommendedOrder: 10},
	}
	suppliers := map[string]domain.Supplier{
		acme: {ID: acme, Name: "Acme", ContactEmail: "a@a.test"},
	}

	groups := GroupBySupplier(items, recs, suppliers)
	if len(groups) != 1 || len(groups[0].Items) != 1 {
		t.Fatalf("got %+v, want one group with one item", groups)
	}
}
