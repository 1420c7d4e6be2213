package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/gocinarr/internal/api"
	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/amaumene/gocinarr/internal/scheduler"
	"github.com/amaumene/gocinarr/internal/services/omdb"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/amaumene/gocinarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Gocinarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize fetch client and services
	fetcher := fetch.NewClient(logger)

	tmdbClient, err := tmdb.NewClient(cfg, fetcher, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	logger.Info("Catalog client initialized")

	omdbClient, err := omdb.NewClient(cfg, fetcher, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize ratings client: %w", err)
	}
	logger.Info("Ratings client initialized")

	// 5. Initialize caches
	images, err := cache.NewImages(cfg.ImageCacheEntries, cfg.ImageCacheBytes)
	if err != nil {
		return fmt.Errorf("failed to initialize image cache: %w", err)
	}

	// 6. Initialize controllers
	enrichCtrl := controllers.NewEnrichController(tmdbClient, omdbClient, cfg.SuspectEpisodeThreshold, logger)
	recommendCtrl := controllers.NewRecommendController(db, tmdbClient, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(enrichCtrl, images, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Deps{
		DB:            db,
		Catalog:       tmdbClient,
		EnrichCtrl:    enrichCtrl,
		RecommendCtrl: recommendCtrl,
		Images:        images,
		Fetcher:       fetcher,
	}, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Gocinarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Gocinarr stopped")
	return nil
}
