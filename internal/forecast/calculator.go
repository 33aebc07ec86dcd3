package forecast

import (
	"math"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

// ModelName is the fixed model identifier. There is exactly one forecasting
// algorithm; this is not a pluggable strategy.
const ModelName = "Simple Moving Average"

const (
	recentWindow      = 14   // points used for the moving average
	trendMinPoints    = 4    // below this, trend is stable by definition
	trendUpThreshold  = 0.10 // half-over-half change for increasing/decreasing
	increasingScale   = 1.1
	decreasingScale   = 0.9
	safetyStockDays   = 3  // fixed buffer, not derived from variance
	fullVolumePoints  = 30 // point count at which confidence stops being scaled down
	seasonalityMinPts = 14
	seasonalitySpread = 0.3 // (max-min)/mean over weekly buckets
)

// Result is a computed forecast plus the non-fatal warnings collected during
// validation.
type Result struct {
	Forecast domain.Forecast
	Warnings []string
}

// Calculate runs the validation gate and then the moving-average forecast for
// one SKU. Returns *InsufficientDataError when fewer than MinDataPoints daily
// points exist; all other data problems surface as warnings on the result.
func Calculate(sku string, points []SalesPoint, currentStock, leadTimeDays, horizonDays int, now time.Time) (*Result, error) {
	warnings, err := ValidateHistory(points, currentStock, now)
	if err != nil {
		return nil, err
	}

	avgDaily := averageDailySales(points)
	trend := classifyTrend(points)

	forecastQty := avgDaily * float64(horizonDays)
	switch trend {
	case domain.TrendIncreasing:
		forecastQty *= increasingScale
	case domain.TrendDecreasing:
		forecastQty *= decreasingScale
	}

	leadTimeDemand := avgDaily * float64(leadTimeDays)
	safetyStock := avgDaily * safetyStockDays
	recommended := leadTimeDemand + safetyStock - float64(currentStock)
	if recommended < 0 {
		recommended = 0
	}

	return &Result{
		Forecast: domain.Forecast{
			SKU:              sku,
			HorizonDays:      horizonDays,
			ForecastQty:      forecastQty,
			AvgDailySales:    avgDaily,
			ConfidenceScore:  confidenceScore(points),
			Trend:            trend,
			Seasonality:      detectSeasonality(points),
			RecommendedOrder: int(math.Ceil(recommended)),
			DataQualityScore: dataQualityScore(points),
			ModelUsed:        ModelName,
			CurrentStock:     currentStock,
			LeadTimeDays:     leadTimeDays,
			CreatedAt:        now,
		},
		Warnings: warnings,
	}, nil
}

// averageDailySales uses the most recent recentWindow points, or all of them
// when fewer exist.
func averageDailySales(points []SalesPoint) float64 {
	window := points
	if len(points) > recentWindow {
		window = points[len(points)-recentWindow:]
	}

	total := 0
	for _, p := range window {
		total += p.Quantity
	}

	return float64(total) / float64(len(window))
}

// classifyTrend splits the sorted history into first/second halves by count
// and compares their averages: more than +10% is increasing, less than -10%
// is decreasing.
func classifyTrend(points []SalesPoint) domain.Trend {
	if len(points) < trendMinPoints {
		return domain.TrendStable
	}

	half := len(points) / 2
	first := mean(points[:half])
	second := mean(points[half:])

	if first == 0 {
		if second > 0 {
			return domain.TrendIncreasing
		}
		return domain.TrendStable
	}

	change := (second - first) / first
	switch {
	case change > trendUpThreshold:
		return domain.TrendIncreasing
	case change < -trendUpThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// confidenceScore is (1 - coefficient of variation) clamped to [0,1], scaled
// down by data volume: both volatile sales and short histories depress it.
func confidenceScore(points []SalesPoint) float64 {
	m := mean(points)
	if m == 0 {
		return 0
	}

	variance := 0.0
	for _, p := range points {
		d := float64(p.Quantity) - m
		variance += d * d
	}
	variance /= float64(len(points))
	cv := math.Sqrt(variance) / m

	score := clamp01(1 - cv)
	volume := float64(len(points)) / fullVolumePoints
	if volume < 1 {
		score *= volume
	}

	return score
}

// detectSeasonality buckets the series into 7-day windows from the first
// sale date and flags when the bucket spread exceeds seasonalitySpread of the
// mean. Needs at least seasonalityMinPts points, otherwise false.
func detectSeasonality(points []SalesPoint) bool {
	if len(points) < seasonalityMinPts {
		return false
	}

	first := points[0].Date
	buckets := make(map[int]float64)
	for _, p := range points {
		week := int(p.Date.Sub(first).Hours() / 24 / 7)
		buckets[week] += float64(p.Quantity)
	}
	if len(buckets) < 2 {
		return false
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	total := 0.0
	for _, sum := range buckets {
		min = math.Min(min, sum)
		max = math.Max(max, sum)
		total += sum
	}
	bucketMean := total / float64(len(buckets))
	if bucketMean == 0 {
		return false
	}

	return (max-min)/bucketMean > seasonalitySpread
}

// dataQualityScore starts at 1.0 and is multiplied down for short histories,
// sparse date coverage, and zero-heavy series. Independent of confidence:
// this scores trust in the history itself.
func dataQualityScore(points []SalesPoint) float64 {
	score := 1.0

	if len(points) < fullVolumePoints {
		score *= float64(len(points)) / fullVolumePoints
	}

	spanDays := points[len(points)-1].Date.Sub(points[0].Date).Hours()/24 + 1
	if float64(len(points)) < 0.8*spanDays {
		score *= 0.8
	}

	zeroDays := 0
	for _, p := range points {
		if p.Quantity == 0 {
			zeroDays++
		}
	}
	if float64(zeroDays) > 0.3*float64(len(points)) {
		score *= 0.7
	}

	return clamp01(score)
}

func mean(points []SalesPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	total := 0
	for _, p := range points {
		total += p.Quantity
	}

	return float64(total) / float64(len(points))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
