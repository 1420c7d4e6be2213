package handlers

import (
	"net/http"
	"time"

	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler reports cache and daily pick state
type StatusHandler struct {
	db         *models.Database
	enrichCtrl *controllers.EnrichController
	images     *cache.Images
	logger     *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, enrichCtrl *controllers.EnrichController, images *cache.Images, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:         db,
		enrichCtrl: enrichCtrl,
		images:     images,
		logger:     logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	RatingsCached   int        `json:"ratings_cached"`
	SeasonsCached   int        `json:"seasons_cached"`
	ImagesCached    int        `json:"images_cached"`
	ImageCacheBytes int        `json:"image_cache_bytes"`
	PickCreatedAt   *time.Time `json:"pick_created_at,omitempty"`
	PickValidToday  bool       `json:"pick_valid_today"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ratings, seasons := h.enrichCtrl.CacheStats()
	response := StatusResponse{
		RatingsCached:   ratings,
		SeasonsCached:   seasons,
		ImagesCached:    h.images.Len(),
		ImageCacheBytes: h.images.Bytes(),
	}

	pick, err := h.db.GetDailyPick()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read daily pick")
	} else if pick != nil {
		response.PickCreatedAt = &pick.CreatedAt
		response.PickValidToday = pick.SameDay(time.Now())
	}

	writeJSON(w, response)
}
