package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/amaumene/gocinarr/internal/api/handlers"
	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/amaumene/gocinarr/internal/services/omdb"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		TMDBAPIKey:            "test",
		TMDBBaseURL:           "http://127.0.0.1:1",
		OMDBAPIKey:            "test",
		OMDBBaseURL:           "http://127.0.0.1:1",
		OMDBRequestsPerSecond: 1,
		OMDBBurst:             1,
		ServerPort:            "0",
	}

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	fetcher := fetch.NewClient(logger)
	tmdbClient, err := tmdb.NewClient(cfg, fetcher, logger)
	if err != nil {
		t.Fatalf("tmdb.NewClient failed: %v", err)
	}
	omdbClient, err := omdb.NewClient(cfg, fetcher, logger)
	if err != nil {
		t.Fatalf("omdb.NewClient failed: %v", err)
	}
	images, err := cache.NewImages(4, 1024)
	if err != nil {
		t.Fatalf("NewImages failed: %v", err)
	}

	return NewServer(cfg, Deps{
		DB:            db,
		Catalog:       tmdbClient,
		EnrichCtrl:    controllers.NewEnrichController(tmdbClient, omdbClient, 100, logger),
		RecommendCtrl: controllers.NewRecommendController(db, tmdbClient, logger),
		Images:        images,
		Fetcher:       fetcher,
	}, logger)
}

func TestStatusRoute(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/status returned %d", rec.Code)
	}
	var status handlers.StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status response: %v", err)
	}
	if status.PickValidToday {
		t.Error("fresh database must not report a valid pick")
	}
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health returned %d", rec.Code)
	}
}
