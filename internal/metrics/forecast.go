// backend-go/internal/metrics/forecast.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ForecastMetrics records forecast pipeline outcomes and latency.
type ForecastMetrics struct {
	Runs     *prometheus.CounterVec
	Duration prometheus.Histogram
}

// Outcome labels for the forecast run counter.
const (
	OutcomeSuccess          = "success"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeFailed           = "failed"
	OutcomeGateBlocked      = "gate_blocked"
)

func NewForecastMetrics(reg prometheus.Registerer) *ForecastMetrics {
	m := &ForecastMetrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shelfwise",
			Subsystem: "forecast",
			Name:      "runs_total",
			Help:      "Forecast computations by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shelfwise",
			Subsystem: "forecast",
			Name:      "duration_seconds",
			Help:      "Wall time of a single SKU forecast computation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.Runs, m.Duration)
	return m
}

// NewNoopForecastMetrics returns metrics bound to a throwaway registry,
// useful in tests and CLIs.
func NewNoopForecastMetrics() *ForecastMetrics {
	return NewForecastMetrics(prometheus.NewRegistry())
}
