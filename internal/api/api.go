// backend-go/internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfwise/backend-go/internal/api/handlers"
	"github.com/shelfwise/backend-go/internal/api/middleware"
	"github.com/shelfwise/backend-go/internal/importer"
	"github.com/shelfwise/backend-go/internal/service"
)

type Services struct {
	Cleanup        *service.CleanupService
	Forecast       *service.ForecastService
	Reorder        *service.ReorderService
	Recommendation *service.RecommendationService
	Importer       *importer.Service
}

type Options struct {
	AllowedOrigins  []string
	DefaultHorizon  int
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(buildCORSConfig(opts.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if opts.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.RequireUser())

	if services.Cleanup != nil {
		cleanupHandler := handlers.NewCleanupHandler(services.Cleanup)
		cleanupGroup := apiGroup.Group("/cleanup")
		{
			cleanupGroup.POST("/scan", cleanupHandler.Scan)
			cleanupGroup.GET("/issues", cleanupHandler.GetIssues)
			cleanupGroup.GET("/report", cleanupHandler.GetReport)
			cleanupGroup.POST("/resolve", cleanupHandler.Resolve)
		}
	}

	if services.Forecast != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecast, opts.DefaultHorizon)
		forecastGroup := apiGroup.Group("/forecast")
		{
			forecastGroup.POST("/generate", forecastHandler.Generate)
			forecastGroup.POST("/batch", forecastHandler.GenerateBatch)
			forecastGroup.GET("/:sku", forecastHandler.GetLatest)
		}
	}

	if services.Reorder != nil {
		reorderHandler := handlers.NewReorderHandler(services.Reorder)
		reorderGroup := apiGroup.Group("/reorder")
		{
			reorderGroup.GET("/suggestions", reorderHandler.GetSuggestions)
			reorderGroup.POST("/po/:supplier_id", reorderHandler.GeneratePO)
		}
	}

	if services.Recommendation != nil {
		recHandler := handlers.NewRecommendationHandler(services.Recommendation)
		recGroup := apiGroup.Group("/recommendations")
		{
			recGroup.GET("", recHandler.GetRecommendations)
			recGroup.GET("/todos", recHandler.GetDailyTodos)
		}
	}

	if services.Importer != nil {
		importHandler := handlers.NewImportHandler(services.Importer)
		importGroup := apiGroup.Group("/import")
		{
			importGroup.GET("/archive", importHandler.ListArchive)
			importGroup.GET("/archive/file", importHandler.DownloadArchive)
			importGroup.POST("/:kind", importHandler.Upload)
		}
	}

	return router
}

func buildCORSConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		return config
	}

	normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll {
		config.AllowOrigins = nil
		config.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalized) > 0 {
		config.AllowOrigins = normalized
	}
	return config
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
