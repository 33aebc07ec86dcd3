package forecast

import (
	"sort"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

// SalesPoint is one day of aggregated sales for a SKU.
type SalesPoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// AggregateByDate collapses raw sales records into one point per calendar
// day, sorted ascending. Forecasting always runs over the aggregated series.
func AggregateByDate(records []domain.SalesRecord) []SalesPoint {
	byDay := make(map[time.Time]int)
	for _, r := range records {
		day := r.SoldAt.Truncate(24 * time.Hour)
		byDay[day] += r.Quantity
	}

	points := make([]SalesPoint, 0, len(byDay))
	for day, qty := range byDay {
		points = append(points, SalesPoint{Date: day, Quantity: qty})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return points
}
