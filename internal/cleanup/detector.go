package cleanup

import (
	"fmt"
	"strings"

	"github.com/shelfwise/backend-go/internal/domain"
)

// DuplicateThreshold is the minimum name similarity for two items to be
// grouped into one duplicate issue.
const DuplicateThreshold = 0.8

// DetectDuplicates groups items whose names score above DuplicateThreshold
// into one draft issue per group. Single pass: once an item joins a group it
// is never compared again, so groups are disjoint. O(n²) name comparisons,
// which is fine for the catalog sizes this serves (hundreds to low thousands
// of SKUs); there is deliberately no blocking/indexing step.
func DetectDuplicates(items []domain.InventoryItem) []domain.CleanupIssue {
	var issues []domain.CleanupIssue

	processed := make(map[string]bool, len(items))
	for i, item := range items {
		if processed[item.SKU] {
			continue
		}

		group := []string{item.SKU}
		for _, other := range items[i+1:] {
			if processed[other.SKU] {
				continue
			}
			if Similarity(item.Name, other.Name) > DuplicateThreshold {
				group = append(group, other.SKU)
				processed[other.SKU] = true
			}
		}

		if len(group) < 2 {
			continue
		}
		processed[item.SKU] = true

		issues = append(issues, domain.CleanupIssue{
			Type:         domain.IssueDuplicate,
			Severity:     domain.SeverityHigh,
			AffectedSKUs: group,
			SuggestedAction: fmt.Sprintf(
				"Review %d items similar to %q and merge or rename duplicates", len(group), item.Name),
		})
	}

	return issues
}

// DetectMissingSuppliers emits at most one issue listing every item without a
// supplier assignment.
func DetectMissingSuppliers(items []domain.InventoryItem) []domain.CleanupIssue {
	var affected []string
	for _, item := range items {
		if item.SupplierID == nil || strings.TrimSpace(*item.SupplierID) == "" {
			affected = append(affected, item.SKU)
		}
	}

	if len(affected) == 0 {
		return nil
	}

	return []domain.CleanupIssue{{
		Type:         domain.IssueMissingSupplier,
		Severity:     domain.SeverityMedium,
		AffectedSKUs: affected,
		SuggestedAction: fmt.Sprintf(
			"Assign a supplier to %d items so reorder quantities can use real lead times", len(affected)),
	}}
}

// DetectMissingSalesHistory emits at most one issue listing every item with no
// sales records at all.
func DetectMissingSalesHistory(items []domain.InventoryItem, sales []domain.SalesRecord) []domain.CleanupIssue {
	sold := make(map[string]bool, len(sales))
	for _, s := range sales {
		sold[s.SKU] = true
	}

	var affected []string
	for _, item := range items {
		if !sold[item.SKU] {
			affected = append(affected, item.SKU)
		}
	}

	if len(affected) == 0 {
		return nil
	}

	return []domain.CleanupIssue{{
		Type:         domain.IssueNoSalesHistory,
		Severity:     domain.SeverityLow,
		AffectedSKUs: affected,
		SuggestedAction: fmt.Sprintf(
			"Import sales history for %d items or confirm they are new products", len(affected)),
	}}
}

// Scan runs every detector over a user's materialized items and sales and
// returns the full draft issue set for this scan. Callers persist the result
// as a full replacement of previous issue rows.
func Scan(items []domain.InventoryItem, sales []domain.SalesRecord) []domain.CleanupIssue {
	var issues []domain.CleanupIssue
	issues = append(issues, DetectDuplicates(items)...)
	issues = append(issues, DetectMissingSuppliers(items)...)
	issues = append(issues, DetectMissingSalesHistory(items, sales)...)

	return issues
}
