package reorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shelfwise/backend-go/internal/domain"
)

// IncompleteSupplierError refuses PO generation for a supplier record that is
// missing required contact fields. This is a hard precondition, not a
// warning.
type IncompleteSupplierError struct {
	SupplierName  string
	MissingFields []string
}

func (e *IncompleteSupplierError) Error() string {
	return fmt.Sprintf("supplier %q cannot back a purchase order: missing %s",
		e.SupplierName, strings.Join(e.MissingFields, ", "))
}

// POLine is one ordered SKU on a purchase order draft.
type POLine struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseOrder is a finalized draft handed to the (external) email/document
// renderer.
type PurchaseOrder struct {
	SupplierID    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	SupplierEmail string          `json:"supplier_email"`
	Lines         []POLine        `json:"lines"`
	TotalUnits    int             `json:"total_units"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BuildPurchaseOrder assembles a PO draft for one supplier group. It enforces
// the completeness gate and skips lines with nothing to order.
func BuildPurchaseOrder(group domain.SupplierReorderGroup, supplier *domain.Supplier, now time.Time) (*PurchaseOrder, error) {
	if missing := SupplierMissingFields(supplier); len(missing) > 0 {
		name := group.SupplierName
		if supplier != nil && supplier.Name != "" {
			name = supplier.Name
		}
		return nil, &IncompleteSupplierError{SupplierName: name, MissingFields: missing}
	}

	po := &PurchaseOrder{
		SupplierID:    supplier.ID,
		SupplierName:  supplier.Name,
		SupplierEmail: supplier.ContactEmail,
		TotalCost:     decimal.Zero,
		CreatedAt:     now,
	}

	for _, rec := range group.Items {
		if rec.RecommendedOrder <= 0 {
			continue
		}

		unitCost := decimal.NewFromFloat(rec.UnitCost)
		line := POLine{
			SKU:       rec.SKU,
			Name:      rec.Name,
			Quantity:  rec.RecommendedOrder,
			UnitCost:  unitCost,
			LineTotal: unitCost.Mul(decimal.NewFromInt(int64(rec.RecommendedOrder))),
		}
		po.Lines = append(po.Lines, line)
		po.TotalUnits += line.Quantity
		po.TotalCost = po.TotalCost.Add(line.LineTotal)
	}

	if len(po.Lines) == 0 {
		return nil, fmt.Errorf("no items with a positive reorder quantity for supplier %q", supplier.Name)
	}

	return po, nil
}
