package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/gocinarr/internal/api/handlers"
	"github.com/amaumene/gocinarr/internal/api/middleware"
	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// Deps bundles the components the API surface exposes
type Deps struct {
	DB            *models.Database
	Catalog       *tmdb.Client
	EnrichCtrl    *controllers.EnrichController
	RecommendCtrl *controllers.RecommendController
	Images        *cache.Images
	Fetcher       *fetch.Client
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, deps)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, deps Deps) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	statusHandler := handlers.NewStatusHandler(deps.DB, deps.EnrichCtrl, deps.Images, s.logger)
	mux.HandleFunc("/api/status", statusHandler.ServeHTTP)

	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, s.logger)
	mux.HandleFunc("/api/media", catalogHandler.List)
	mux.HandleFunc("/api/search", catalogHandler.Search)
	mux.HandleFunc("/api/credits", catalogHandler.Credits)
	mux.HandleFunc("/api/collection", catalogHandler.Collection)
	mux.HandleFunc("/api/person", catalogHandler.Person)

	enrichmentHandler := handlers.NewEnrichmentHandler(deps.EnrichCtrl, s.logger)
	mux.HandleFunc("/api/enrichment", enrichmentHandler.Enrich)
	mux.HandleFunc("/api/enrichment/season", enrichmentHandler.Season)

	pickHandler := handlers.NewPickHandler(deps.RecommendCtrl, s.logger)
	mux.HandleFunc("/api/pick", pickHandler.ServeHTTP)

	imageHandler := handlers.NewImageHandler(deps.Images, deps.Fetcher, s.logger)
	mux.HandleFunc("/api/image", imageHandler.ServeHTTP)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
