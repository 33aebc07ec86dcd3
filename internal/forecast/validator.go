package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MinDataPoints is the hard minimum number of daily sales points required
// before any forecast is attempted.
const MinDataPoints = 7

const staleDataDays = 30

const (
	outlierMinPoints = 4
	outlierIQRFactor = 1.5
	outlierShare     = 0.1
)

// InsufficientDataError reports a failed validation gate. Both the observed
// point count and the required minimum are surfaced so callers can prompt for
// corrective action instead of treating this as a generic failure.
type InsufficientDataError struct {
	PointCount  int
	MinRequired int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient sales data: need at least %d data points, got %d",
		e.MinRequired, e.PointCount)
}

// ValidateHistory runs the validation gate over an aggregated, sorted sales
// series. It fails only on the minimum-points requirement; everything else is
// returned as non-blocking warning strings attached to the eventual result.
func ValidateHistory(points []SalesPoint, currentStock int, now time.Time) ([]string, error) {
	if len(points) < MinDataPoints {
		return nil, &InsufficientDataError{PointCount: len(points), MinRequired: MinDataPoints}
	}

	var warnings []string

	spanDays := int(points[len(points)-1].Date.Sub(points[0].Date).Hours()/24) + 1
	if spanDays > 2*len(points) {
		warnings = append(warnings,
			fmt.Sprintf("sales history has large gaps: %d points across %d days", len(points), spanDays))
	}

	zeroDays := 0
	for _, p := range points {
		if p.Quantity == 0 {
			zeroDays++
		}
	}
	if zeroDays*2 > len(points) {
		warnings = append(warnings,
			"more than 50% of days have zero sales; forecast accuracy may be reduced")
	}

	if currentStock < 0 {
		warnings = append(warnings,
			fmt.Sprintf("current stock is negative (%d); check for unrecorded receipts", currentStock))
	}

	if age := int(now.Sub(points[len(points)-1].Date).Hours() / 24); age > staleDataDays {
		warnings = append(warnings,
			fmt.Sprintf("last sale was %d days ago; forecast may not reflect current demand", age))
	}

	if hasSignificantOutliers(points) {
		warnings = append(warnings,
			"significant outliers detected in sales data; check for data entry errors")
	}

	return warnings, nil
}

// hasSignificantOutliers flags a series where more than 10% of points fall
// outside the Tukey fences (1.5 IQR beyond the quartiles).
func hasSignificantOutliers(points []SalesPoint) bool {
	if len(points) < outlierMinPoints {
		return false
	}

	quantities := make([]float64, len(points))
	for i, p := range points {
		quantities[i] = float64(p.Quantity)
	}
	sort.Float64s(quantities)

	iqr := percentile(quantities, 0.75) - percentile(quantities, 0.25)
	lower := percentile(quantities, 0.25) - outlierIQRFactor*iqr
	upper := percentile(quantities, 0.75) + outlierIQRFactor*iqr

	outliers := 0
	for _, q := range quantities {
		if q < lower || q > upper {
			outliers++
		}
	}
	return float64(outliers) > outlierShare*float64(len(quantities))
}

// percentile interpolates linearly over a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}
