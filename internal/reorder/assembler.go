package reorder

import (
	"sort"

	"github.com/shelfwise/backend-go/internal/domain"
)

// Urgency thresholds on days-until-stockout. Independent of the narrator's
// priority labels; PO assembly derives urgency from the numbers alone.
const (
	highUrgencyDays   = 3
	mediumUrgencyDays = 7
)

// UnassignedSupplier labels the bucket for items with no supplier reference.
const UnassignedSupplier = "unassigned"

// Urgency derives the reorder urgency for one line. A negative days value
// means no projected stockout.
func Urgency(currentStock int, daysUntilStockout float64) domain.Urgency {
	if currentStock <= 0 {
		return domain.UrgencyHigh
	}
	if daysUntilStockout < 0 {
		return domain.UrgencyLow
	}
	switch {
	case daysUntilStockout <= highUrgencyDays:
		return domain.UrgencyHigh
	case daysUntilStockout <= mediumUrgencyDays:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

// SupplierMissingFields reports which required contact fields a supplier
// record lacks before it can back a purchase order. A nil supplier is missing
// everything.
func SupplierMissingFields(s *domain.Supplier) []string {
	var missing []string
	if s == nil || s.Name == "" {
		missing = append(missing, "name")
	}
	if s == nil || s.ContactEmail == "" {
		missing = append(missing, "contact_email")
	}

	return missing
}

// GroupBySupplier buckets reorder recommendations by their item's assigned
// supplier, with an explicit unassigned bucket. Each group carries the PO
// gate: can_generate_po is true only for complete supplier records, and the
// unassigned bucket can never generate a PO. Groups come back ordered with
// the unassigned bucket last, named suppliers alphabetically.
func GroupBySupplier(items []domain.InventoryItem, recs map[string]domain.ReorderRecommendation, suppliers map[string]domain.Supplier) []domain.SupplierReorderGroup {
	bySupplier := make(map[string][]domain.ReorderRecommendation)
	for _, item := range items {
		rec, ok := recs[item.SKU]
		if !ok {
			continue
		}

		key := UnassignedSupplier
		if item.SupplierID != nil && *item.SupplierID != "" {
			key = *item.SupplierID
		}
		bySupplier[key] = append(bySupplier[key], rec)
	}

	groups := make([]domain.SupplierReorderGroup, 0, len(bySupplier))
	for key, lines := range bySupplier {
		sort.Slice(lines, func(i, j int) bool { return lines[i].SKU < lines[j].SKU })

		if key == UnassignedSupplier {
			groups = append(groups, domain.SupplierReorderGroup{
				SupplierName:  UnassignedSupplier,
				CanGeneratePO: false,
				MissingFields: SupplierMissingFields(nil),
				Items:         lines,
			})
			continue
		}

		supplierID := key
		group := domain.SupplierReorderGroup{
			SupplierID: &supplierID,
			Items:      lines,
		}
		if s, ok := suppliers[key]; ok {
			group.SupplierName = s.Name
			group.MissingFields = SupplierMissingFields(&s)
		} else {
			group.MissingFields = SupplierMissingFields(nil)
		}
		group.CanGeneratePO = len(group.MissingFields) == 0
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if (groups[i].SupplierID == nil) != (groups[j].SupplierID == nil) {
			return groups[j].SupplierID == nil
		}
		return groups[i].SupplierName < groups[j].SupplierName
	})

	return groups
}
