// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shelfwise/backend-go/internal/api"
	"github.com/shelfwise/backend-go/internal/cache"
	"github.com/shelfwise/backend-go/internal/config"
	"github.com/shelfwise/backend-go/internal/importer"
	"github.com/shelfwise/backend-go/internal/metrics"
	"github.com/shelfwise/backend-go/internal/recommend"
	"github.com/shelfwise/backend-go/internal/repository/postgres"
	"github.com/shelfwise/backend-go/internal/service"
	"github.com/shelfwise/backend-go/internal/storage"
	"github.com/shelfwise/backend-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	reportCache, err := cache.NewCleanupReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, running without it")
		reportCache = cache.NewNoopCleanupReportCache()
	}

	var archive storage.ObjectStorage = storage.NoopStorage{}
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
	}

	registry := prometheus.NewRegistry()
	forecastMetrics := metrics.NewForecastMetrics(registry)

	inventoryRepo := postgres.NewInventoryRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	issueRepo := postgres.NewIssueRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)

	var llm recommend.LLMClient
	if cfg.LLM.APIKey != "" {
		llm = recommend.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model)
	} else {
		logger.Log.Info().Msg("no LLM api key configured, using rule-based recommendations")
	}
	narrator := recommend.NewNarrator(llm, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)

	importService := importer.NewService(inventoryRepo, salesRepo, supplierRepo, archive)

	services := &api.Services{
		Cleanup:  service.NewCleanupService(inventoryRepo, salesRepo, issueRepo, reportCache),
		Forecast: service.NewForecastService(inventoryRepo, salesRepo, forecastRepo, issueRepo, forecastMetrics, cfg.App.ForecastBatchSize, cfg.App.ForecastParallelism),
		Reorder:  service.NewReorderService(inventoryRepo, supplierRepo, forecastRepo),
		Recommendation: service.NewRecommendationService(
			inventoryRepo, supplierRepo, forecastRepo, narrator,
		),
		Importer: importService,
	}

	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go runForecastPrune(pruneCtx, services.Forecast, cfg.App.ForecastRetentionD)

	router := api.NewRouter(services, api.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		DefaultHorizon:  cfg.App.ForecastHorizon,
		MetricsGatherer: registry,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// runForecastPrune drops superseded forecast rows once a day so the
// forecasts table does not grow without bound.
func runForecastPrune(ctx context.Context, svc *service.ForecastService, retentionDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		pruned, err := svc.Prune(ctx, retentionDays)
		if err != nil {
			logger.Log.Error().Err(err).Msg("forecast prune failed")
		} else if pruned > 0 {
			logger.Log.Info().Int64("pruned", pruned).Int("retention_days", retentionDays).Msg("pruned superseded forecasts")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
