package forecast

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

// series builds daily points ending the day before testNow.
func series(quantities ...int) []SalesPoint {
	points := make([]SalesPoint, len(quantities))
	start := testNow.AddDate(0, 0, -len(quantities))
	for i, q := range quantities {
		points[i] = SalesPoint{Date: start.AddDate(0, 0, i), Quantity: q}
	}
	return points
}

func flatSeries(n, qty int) []SalesPoint {
	quantities := make([]int, n)
	for i := range quantities {
		quantities[i] = qty
	}
	return series(quantities...)
}

func TestCalculateInsufficientData(t *testing.T) {
	_, err := Calculate("SKU-1", series(1, 2, 3), 10, 5, 30, testNow)
	if err == nil {
		t.Fatal("expected error for short history")
	}

	var dataErr *InsufficientDataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("error type = %T, want *InsufficientDataError", err)
	}
	if dataErr.PointCount != 3 || dataErr.MinRequired != MinDataPoints {
		t.Errorf("got %d/%d, want 3/%d", dataErr.PointCount, dataErr.MinRequired, MinDataPoints)
	}
}

func TestCalculateMinimumHistory(t *testing.T) {
	result, err := Calculate("SKU-1", flatSeries(MinDataPoints, 2), 10, 5, 30, testNow)
	if err != nil {
		t.Fatalf("Calculate with exactly %d points: %v", MinDataPoints, err)
	}
	if result.Forecast.ModelUsed != ModelName {
		t.Errorf("ModelUsed = %q, want %q", result.Forecast.ModelUsed, ModelName)
	}
}

func TestCalculateStableSeries(t *testing.T) {
	result, err := Calculate("SKU-1", flatSeries(28, 5), 100, 7, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}

	f := result.Forecast
	if f.Trend != domain.TrendStable {
		t.Errorf("Trend = %v, want stable", f.Trend)
	}
	if math.Abs(f.AvgDailySales-5) > 1e-9 {
		t.Errorf("AvgDailySales = %v, want 5", f.AvgDailySales)
	}
	if math.Abs(f.ForecastQty-150) > 1e-9 {
		t.Errorf("ForecastQty = %v, want 150 (no trend multiplier)", f.ForecastQty)
	}
	// lead time demand 35 + safety 15 - stock 100 < 0
	if f.RecommendedOrder != 0 {
		t.Errorf("RecommendedOrder = %d, want 0 when stock covers demand", f.RecommendedOrder)
	}
}

func TestCalculateIncreasingTrend(t *testing.T) {
	// First half averages 2, second half averages 10.
	quantities := make([]int, 28)
	for i := range quantities {
		if i < 14 {
			quantities[i] = 2
		} else {
			quantities[i] = 10
		}
	}

	result, err := Calculate("SKU-1", series(quantities...), 5, 7, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}

	f := result.Forecast
	if f.Trend != domain.TrendIncreasing {
		t.Fatalf("Trend = %v, want increasing", f.Trend)
	}

	// Average over the recent 14-day window is 10; the 1.1 multiplier
	// pushes the horizon forecast above the plain projection.
	plain := f.AvgDailySales * 30
	if f.ForecastQty <= plain {
		t.Errorf("ForecastQty = %v, want > %v with increasing multiplier", f.ForecastQty, plain)
	}
	if f.RecommendedOrder <= 0 {
		t.Errorf("RecommendedOrder = %d, want positive with low stock", f.RecommendedOrder)
	}
}

func TestCalculateDecreasingTrend(t *testing.T) {
	quantities := make([]int, 28)
	for i := range quantities {
		if i < 14 {
			quantities[i] = 10
		} else {
			quantities[i] = 2
		}
	}

	result, err := Calculate("SKU-1", series(quantities...), 5, 7, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}

	f := result.Forecast
	if f.Trend != domain.TrendDecreasing {
		t.Fatalf("Trend = %v, want decreasing", f.Trend)
	}
	plain := f.AvgDailySales * 30
	if f.ForecastQty >= plain {
		t.Errorf("ForecastQty = %v, want < %v with decreasing multiplier", f.ForecastQty, plain)
	}
}

func TestCalculateRecommendedOrderNeverNegative(t *testing.T) {
	result, err := Calculate("SKU-1", flatSeries(14, 1), 1000, 2, 14, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if result.Forecast.RecommendedOrder < 0 {
		t.Errorf("RecommendedOrder = %d, must never be negative", result.Forecast.RecommendedOrder)
	}
}

func TestCalculateRecommendedOrderCoversLeadTime(t *testing.T) {
	// avg 4/day, lead 10 days, safety 3 days, stock 12:
	// ceil(40 + 12 - 12) = 40
	result, err := Calculate("SKU-1", flatSeries(14, 4), 12, 10, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Forecast.RecommendedOrder; got != 40 {
		t.Errorf("RecommendedOrder = %d, want 40", got)
	}
}

func TestConfidenceScore(t *testing.T) {
	// Perfectly steady sales with a full 30-point history score 1.0.
	steady, err := Calculate("SKU-1", flatSeries(30, 5), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(steady.Forecast.ConfidenceScore-1.0) > 1e-9 {
		t.Errorf("steady full-history confidence = %v, want 1.0", steady.Forecast.ConfidenceScore)
	}

	// A shorter history must score lower even with identical quantities.
	short, err := Calculate("SKU-1", flatSeries(10, 5), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if short.Forecast.ConfidenceScore >= steady.Forecast.ConfidenceScore {
		t.Errorf("short history confidence %v should be below full history %v",
			short.Forecast.ConfidenceScore, steady.Forecast.ConfidenceScore)
	}

	// Volatile sales must score lower than steady sales.
	volatile, err := Calculate("SKU-1", series(
		0, 20, 0, 20, 0, 20, 0, 20, 0, 20, 0, 20, 0, 20, 0,
		20, 0, 20, 0, 20, 0, 20, 0, 20, 0, 20, 0, 20, 0, 20,
	), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if volatile.Forecast.ConfidenceScore >= steady.Forecast.ConfidenceScore {
		t.Errorf("volatile confidence %v should be below steady %v",
			volatile.Forecast.ConfidenceScore, steady.Forecast.ConfidenceScore)
	}
}

func TestDetectSeasonality(t *testing.T) {
	// Alternating strong/weak weeks over 4 weeks.
	quantities := make([]int, 28)
	for i := range quantities {
		if (i/7)%2 == 0 {
			quantities[i] = 10
		} else {
			quantities[i] = 2
		}
	}
	result, err := Calculate("SKU-1", series(quantities...), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Forecast.Seasonality {
		t.Error("expected seasonality for alternating weekly pattern")
	}

	flat, err := Calculate("SKU-1", flatSeries(28, 5), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if flat.Forecast.Seasonality {
		t.Error("flat series must not report seasonality")
	}

	// Below the point minimum seasonality is always false.
	short, err := Calculate("SKU-1", series(10, 2, 10, 2, 10, 2, 10), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if short.Forecast.Seasonality {
		t.Error("short series must not report seasonality")
	}
}

func TestDataQualityScore(t *testing.T) {
	full, err := Calculate("SKU-1", flatSeries(30, 5), 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(full.Forecast.DataQualityScore-1.0) > 1e-9 {
		t.Errorf("dense full history quality = %v, want 1.0", full.Forecast.DataQualityScore)
	}

	// Sparse coverage: 8 points spread over ~40 days.
	sparse := make([]SalesPoint, 8)
	for i := range sparse {
		sparse[i] = SalesPoint{Date: testNow.AddDate(0, 0, -40+i*5), Quantity: 5}
	}
	sparseResult, err := Calculate("SKU-1", sparse, 10, 5, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if sparseResult.Forecast.DataQualityScore >= full.Forecast.DataQualityScore {
		t.Errorf("sparse quality %v should be below dense %v",
			sparseResult.Forecast.DataQualityScore, full.Forecast.DataQualityScore)
	}
}

func TestAggregateByDate(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		{SKU: "A", Quantity: 2, SoldAt: day.Add(9 * time.Hour)},
		{SKU: "A", Quantity: 3, SoldAt: day.Add(17 * time.Hour)},
		{SKU: "A", Quantity: 1, SoldAt: day.AddDate(0, 0, -1)},
	}

	points := AggregateByDate(records)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if !points[0].Date.Before(points[1].Date) {
		t.Error("points are not sorted ascending")
	}
	if points[1].Quantity != 5 {
		t.Errorf("same-day quantities not summed: got %d, want 5", points[1].Quantity)
	}
}

func TestValidateHistoryWarnings(t *testing.T) {
	t.Run("gap warning", func(t *testing.T) {
		// 8 points over ~36 days: span > 2x count.
		points := make([]SalesPoint, 8)
		for i := range points {
			points[i] = SalesPoint{Date: testNow.AddDate(0, 0, -36+i*5), Quantity: 3}
		}
		warnings, err := ValidateHistory(points, 10, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) == 0 {
			t.Error("expected a gap warning for sparse history")
		}
	})

	t.Run("negative stock warning", func(t *testing.T) {
		warnings, err := ValidateHistory(flatSeries(14, 3), -2, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 1 {
			t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
		}
	})

	t.Run("stale data warning", func(t *testing.T) {
		points := make([]SalesPoint, 14)
		for i := range points {
			points[i] = SalesPoint{Date: testNow.AddDate(0, 0, -60+i), Quantity: 3}
		}
		warnings, err := ValidateHistory(points, 10, testNow)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, w := range warnings {
			if len(w) > 0 && w[0] == 'l' { // "last sale was ..."
				found = true
			}
		}
		if !found {
			t.Errorf("expected stale-data warning, got %v", warnings)
		}
	})

	t.Run("zero-heavy warning", func(t *testing.T) {
		warnings, err := ValidateHistory(series(0, 0, 0, 0, 0, 0, 0, 0, 5, 5), 10, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) == 0 {
			t.Error("expected a zero-days warning")
		}
	})

	t.Run("outlier warning", func(t *testing.T) {
		// One 100-unit day among steady 5s is 12.5% of points outside the fences.
		warnings, err := ValidateHistory(series(5, 5, 5, 100, 5, 5, 5, 5), 10, testNow)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, w := range warnings {
			if strings.Contains(w, "outliers") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected an outlier warning, got %v", warnings)
		}
	})

	t.Run("steady series has no outlier warning", func(t *testing.T) {
		warnings, err := ValidateHistory(flatSeries(14, 3), 10, testNow)
		if err != nil {
			t.Fatal(err)
		}
		for _, w := range warnings {
			if strings.Contains(w, "outliers") {
				t.Errorf("unexpected outlier warning: %v", w)
			}
		}
	})
}

func TestDaysUntilStockout(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		avg   float64
		want  float64
	}{
		{"already out", 0, 5, 0},
		{"negative stock", -3, 5, 0},
		{"no velocity", 100, 0, NoStockout},
		{"normal", 10, 2.5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilStockout(tt.stock, tt.avg); got != tt.want {
				t.Errorf("DaysUntilStockout(%d, %v) = %v, want %v", tt.stock, tt.avg, got, tt.want)
			}
		})
	}
}
