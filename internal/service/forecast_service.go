// backend-go/internal/service/forecast_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/forecast"
	"github.com/shelfwise/backend-go/internal/metrics"
	"github.com/shelfwise/backend-go/internal/repository"
	"github.com/shelfwise/backend-go/pkg/logger"
)

// GateBlockedError reports that forecasting is blocked by unresolved
// high or medium severity cleanup issues.
type GateBlockedError struct {
	HighCount   int
	MediumCount int
}

func (e *GateBlockedError) Error() string {
	return fmt.Sprintf(
		"forecasting blocked: %d high and %d medium severity cleanup issues unresolved",
		e.HighCount, e.MediumCount,
	)
}

// BatchResult is the outcome of a batch forecast run. Items that could
// not be forecast are reported, never silently dropped.
type BatchResult struct {
	Forecasts        []domain.Forecast `json:"forecasts"`
	InsufficientData []string          `json:"insufficient_data_items"`
	Failed           map[string]string `json:"failed_items"`
	Warnings         []string          `json:"warnings,omitempty"`
}

type ForecastService struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	issues    repository.IssueRepository
	metrics   *metrics.ForecastMetrics

	batchSize   int
	parallelism int
}

func NewForecastService(
	inventory repository.InventoryRepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	issues repository.IssueRepository,
	m *metrics.ForecastMetrics,
	batchSize, parallelism int,
) *ForecastService {
	if batchSize <= 0 {
		batchSize = 20
	}
	if parallelism <= 0 {
		parallelism = 4
	}
	return &ForecastService{
		inventory:   inventory,
		sales:       sales,
		forecasts:   forecasts,
		issues:      issues,
		metrics:     m,
		batchSize:   batchSize,
		parallelism: parallelism,
	}
}

// checkGate refuses forecasting while unresolved high or medium severity
// cleanup issues remain. Low severity issues never block.
func (s *ForecastService) checkGate(ctx context.Context, userID string) error {
	issues, err := s.issues.ListIssues(ctx, userID)
	if err != nil {
		return fmt.Errorf("load issues for gate check: %w", err)
	}

	var high, medium int
	for _, issue := range issues {
		if issue.Resolved {
			continue
		}
		switch issue.Severity {
		case domain.SeverityHigh:
			high++
		case domain.SeverityMedium:
			medium++
		}
	}

	if high > 0 || medium > 0 {
		s.metrics.Runs.WithLabelValues(metrics.OutcomeGateBlocked).Inc()
		return &GateBlockedError{HighCount: high, MediumCount: medium}
	}
	return nil
}

// Generate computes and stores a forecast for a single SKU. It fails
// with GateBlockedError while blocking cleanup issues are unresolved and
// with forecast.InsufficientDataError when the SKU lacks history.
func (s *ForecastService) Generate(ctx context.Context, userID, sku string, horizonDays int) (*domain.Forecast, []string, error) {
	if err := s.checkGate(ctx, userID); err != nil {
		return nil, nil, err
	}

	item, err := s.inventory.GetItem(ctx, userID, sku)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("unknown sku %s", sku)
	}

	f, warnings, err := s.forecastItem(ctx, userID, item, horizonDays)
	if err != nil {
		return nil, nil, err
	}

	if err := s.forecasts.InsertForecasts(ctx, []domain.Forecast{*f}); err != nil {
		return nil, nil, fmt.Errorf("store forecast: %w", err)
	}
	return f, warnings, nil
}

func (s *ForecastService) forecastItem(ctx context.Context, userID string, item *domain.InventoryItem, horizonDays int) (*domain.Forecast, []string, error) {
	start := time.Now()

	records, err := s.sales.ListSalesBySKU(ctx, userID, item.SKU)
	if err != nil {
		s.metrics.Runs.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, nil, fmt.Errorf("load sales for %s: %w", item.SKU, err)
	}

	leadTime := 0
	if item.LeadTimeDays != nil {
		leadTime = *item.LeadTimeDays
	}

	points := forecast.AggregateByDate(records)
	result, err := forecast.Calculate(item.SKU, points, item.Stock, leadTime, horizonDays, time.Now().UTC())
	if err != nil {
		var insufficient *forecast.InsufficientDataError
		if errors.As(err, &insufficient) {
			s.metrics.Runs.WithLabelValues(metrics.OutcomeInsufficientData).Inc()
		} else {
			s.metrics.Runs.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		return nil, nil, err
	}

	result.Forecast.ID = uuid.NewString()
	result.Forecast.UserID = userID

	s.metrics.Runs.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.metrics.Duration.Observe(time.Since(start).Seconds())

	return &result.Forecast, result.Warnings, nil
}

// GenerateBatch forecasts every inventory item in bounded-parallel
// batches. A failure on one SKU never aborts the others.
func (s *ForecastService) GenerateBatch(ctx context.Context, userID string, horizonDays int) (*BatchResult, error) {
	if err := s.checkGate(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.inventory.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	result := &BatchResult{
		Forecasts:        []domain.Forecast{},
		InsufficientData: []string{},
		Failed:           map[string]string{},
	}
	var mu sync.Mutex

	for offset := 0; offset < len(items); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[offset:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.parallelism)

		for i := range batch {
			item := batch[i]
			g.Go(func() error {
				f, warnings, err := s.forecastItem(gctx, userID, &item, horizonDays)

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					var insufficient *forecast.InsufficientDataError
					if errors.As(err, &insufficient) {
						result.InsufficientData = append(result.InsufficientData, item.SKU)
					} else {
						result.Failed[item.SKU] = err.Error()
						logger.Log.Error().Err(err).Str("sku", item.SKU).Msg("forecast failed")
					}
					return nil
				}

				result.Forecasts = append(result.Forecasts, *f)
				for _, w := range warnings {
					result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", item.SKU, w))
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if err := s.forecasts.InsertForecasts(ctx, result.Forecasts); err != nil {
		return nil, fmt.Errorf("store forecasts: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID).
		Int("forecasts", len(result.Forecasts)).
		Int("insufficient_data", len(result.InsufficientData)).
		Int("failed", len(result.Failed)).
		Msg("batch forecast complete")

	return result, nil
}

// Latest returns the newest stored forecast for a SKU, or nil when none
// has been generated yet.
func (s *ForecastService) Latest(ctx context.Context, userID, sku string) (*domain.Forecast, error) {
	return s.forecasts.LatestForecastBySKU(ctx, userID, sku)
}

// Prune removes forecast rows older than the retention window, keeping
// the newest row per user and SKU.
func (s *ForecastService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return s.forecasts.PruneForecasts(ctx, cutoff)
}
