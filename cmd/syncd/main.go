// backend-go/cmd/syncd/main.go
//
// syncd polls a Google Drive folder for POS CSV exports and ingests them.
// It runs separately from the API server so a slow Drive API never holds
// up request traffic.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/shelfwise/backend-go/internal/config"
	"github.com/shelfwise/backend-go/internal/importer"
	"github.com/shelfwise/backend-go/internal/possync"
	"github.com/shelfwise/backend-go/internal/repository/postgres"
	"github.com/shelfwise/backend-go/internal/storage"
	"github.com/shelfwise/backend-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.SetLevel(cfg.App.LogLevel)

	if !cfg.Drive.Enabled {
		logger.Log.Fatal().Msg("drive sync is disabled; set DRIVE_ENABLED=true")
	}

	userID := os.Getenv("SYNC_USER_ID")
	if userID == "" {
		logger.Log.Fatal().Msg("SYNC_USER_ID must be set")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drive, err := possync.NewDriveClient(ctx, cfg.Drive.CredentialsFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to create drive client")
	}

	var archive storage.ObjectStorage = storage.NoopStorage{}
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
	}

	imp := importer.NewService(
		postgres.NewInventoryRepository(db),
		postgres.NewSalesRepository(db),
		postgres.NewSupplierRepository(db),
		archive,
	)

	syncer := possync.NewSyncer(drive, imp, cfg.Drive.FolderID, userID)
	go syncer.Run(ctx, time.Duration(cfg.Drive.PollSeconds)*time.Second)

	router := mux.NewRouter()
	possync.NewHandler(syncer).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("syncd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("syncd server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("syncd shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("syncd forced shutdown")
	}
}
