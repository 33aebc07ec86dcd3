// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/lib/pq"
)

// InventoryItem represents a single stocked product for a user
type InventoryItem struct {
	ID           int64    `json:"id" db:"id"`
	UserID       string   `json:"user_id" db:"user_id"`
	SKU          string   `json:"sku" db:"sku"`
	Name         string   `json:"name" db:"name"`
	Stock        int      `json:"stock" db:"stock"`
	SupplierID   *string  `json:"supplier_id,omitempty" db:"supplier_id"`
	UnitCost     *float64 `json:"unit_cost,omitempty" db:"unit_cost"`
	LeadTimeDays *int     `json:"lead_time_days,omitempty" db:"lead_time_days"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SalesRecord is one sale event for a SKU. Immutable once created;
// forecasting aggregates records by sale date.
type SalesRecord struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	SKU       string    `json:"sku" db:"sku"`
	Quantity  int       `json:"quantity" db:"quantity"`
	SoldAt    time.Time `json:"sold_at" db:"sold_at"`
	UnitPrice *float64  `json:"unit_price,omitempty" db:"unit_price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Supplier backs purchase orders. A supplier is "complete" (usable for PO
// generation) only when both name and contact email are present.
type Supplier struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CleanupIssue is one data-quality finding produced by a scan. A duplicate
// issue references the whole duplicate group; gap issues reference every
// affected SKU in a single row.
type CleanupIssue struct {
	ID              string         `json:"id" db:"id"`
	UserID          string         `json:"user_id" db:"user_id"`
	Type            IssueType      `json:"issue_type" db:"issue_type"`
	Severity        Severity       `json:"severity" db:"severity"`
	AffectedSKUs    pq.StringArray `json:"affected_skus" db:"affected_skus"`
	SuggestedAction string         `json:"suggested_action" db:"suggested_action"`
	Resolved        bool           `json:"resolved" db:"resolved"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// Forecast is one persisted forecast run for a SKU. Later runs supersede
// earlier rows; old rows are pruned, never updated in place.
type Forecast struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	SKU              string    `json:"sku" db:"sku"`
	HorizonDays      int       `json:"horizon_days" db:"horizon_days"`
	ForecastQty      float64   `json:"forecast_qty" db:"forecast_qty"`
	AvgDailySales    float64   `json:"avg_daily_sales" db:"avg_daily_sales"`
	ConfidenceScore  float64   `json:"confidence_score" db:"confidence_score"`
	Trend            Trend     `json:"trend" db:"trend"`
	Seasonality      bool      `json:"seasonality_detected" db:"seasonality_detected"`
	RecommendedOrder int       `json:"recommended_order" db:"recommended_order"`
	DataQualityScore float64   `json:"data_quality_score" db:"data_quality_score"`
	ModelUsed        string    `json:"model_used" db:"model_used"`
	CurrentStock     int       `json:"current_stock" db:"current_stock"`
	LeadTimeDays     int       `json:"lead_time_days" db:"lead_time_days"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// CleanupReport is derived from stored issues, never persisted.
// BlockingForecasting is true iff any unresolved issue is high or medium.
type CleanupReport struct {
	TotalIssues          int               `json:"total_issues"`
	ResolvedIssues       int               `json:"resolved_issues"`
	IssuesByType         map[IssueType]int `json:"issues_by_type"`
	CompletionPercentage float64           `json:"completion_percentage"`
	BlockingForecasting  bool              `json:"blocking_forecasting"`
	HighUnresolved       int               `json:"high_unresolved"`
	MediumUnresolved     int               `json:"medium_unresolved"`
}

// ReorderRecommendation is a derived per-SKU reorder suggestion built from the
// latest forecast row. DaysUntilStockout is negative when sales velocity is
// zero (no projected stockout).
type ReorderRecommendation struct {
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	CurrentStock      int     `json:"current_stock"`
	ForecastedDemand  float64 `json:"forecasted_demand"`
	RecommendedOrder  int     `json:"recommended_order"`
	DaysUntilStockout float64 `json:"days_until_stockout"`
	Urgency           Urgency `json:"urgency"`
	UnitCost          float64 `json:"unit_cost"`
}

// SupplierReorderGroup is one supplier bucket of the reorder list. SupplierID
// is nil for the unassigned bucket. PO generation is refused while
// CanGeneratePO is false; MissingFields names what the supplier record lacks.
type SupplierReorderGroup struct {
	SupplierID    *string                 `json:"supplier_id,omitempty"`
	SupplierName  string                  `json:"supplier_name"`
	CanGeneratePO bool                    `json:"can_generate_po"`
	MissingFields []string                `json:"missing_fields,omitempty"`
	Items         []ReorderRecommendation `json:"items"`
}
