package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
)

// EnrichmentHandler serves cross-source enrichment state
type EnrichmentHandler struct {
	enrichCtrl *controllers.EnrichController
	logger     *logrus.Logger
}

// NewEnrichmentHandler creates a new enrichment handler
func NewEnrichmentHandler(enrichCtrl *controllers.EnrichController, logger *logrus.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{enrichCtrl: enrichCtrl, logger: logger}
}

// RatingView is one rating with its normalized value when the format is known
type RatingView struct {
	Source     string   `json:"source"`
	Value      string   `json:"value"`
	Normalized *float64 `json:"normalized,omitempty"`
}

// EnrichmentResponse exposes the orchestrator's per-field state: the caller
// can distinguish missing linking id, a failed ratings fetch, and individual
// failed seasons without any of them failing the request.
type EnrichmentResponse struct {
	Media        *models.Media         `json:"media"`
	NoIMDBID     bool                  `json:"no_imdb_id,omitempty"`
	Ratings      []RatingView          `json:"ratings,omitempty"`
	RatingsError string                `json:"ratings_error,omitempty"`
	Awards       string                `json:"awards,omitempty"`
	TotalSeasons int                   `json:"total_seasons,omitempty"`
	Seasons      []models.SeasonResult `json:"seasons,omitempty"`
}

// Enrich handles full-record enrichment requests
func (h *EnrichmentHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mediaType := models.MediaType(r.URL.Query().Get("type"))
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		writeError(w, http.StatusBadRequest, "type must be movie or tv")
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	media := &models.Media{
		ID:        id,
		MediaType: mediaType,
		IMDBId:    r.URL.Query().Get("imdb_id"),
	}
	result := h.enrichCtrl.Enrich(r.Context(), media)

	writeJSON(w, toEnrichmentResponse(result))
}

// Season handles single-season refresh requests
func (h *EnrichmentHandler) Season(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imdbID := r.URL.Query().Get("imdb_id")
	season, _ := strconv.Atoi(r.URL.Query().Get("season"))

	result, err := h.enrichCtrl.Season(r.Context(), imdbID, season)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, result)
}

func toEnrichmentResponse(result *controllers.EnrichResult) EnrichmentResponse {
	resp := EnrichmentResponse{
		Media:        result.Media,
		NoIMDBID:     result.NoIMDBID,
		Awards:       result.Awards,
		TotalSeasons: result.TotalSeasons,
	}
	if result.RatingsErr != nil {
		resp.RatingsError = result.RatingsErr.Error()
	}
	for _, rating := range result.Ratings {
		view := RatingView{Source: rating.Source, Value: rating.Value}
		if n, ok := rating.Normalized(); ok {
			view.Normalized = &n
		}
		resp.Ratings = append(resp.Ratings, view)
	}
	for _, sr := range result.Seasons {
		resp.Seasons = append(resp.Seasons, sr)
	}
	sort.Slice(resp.Seasons, func(i, j int) bool {
		return resp.Seasons[i].Season < resp.Seasons[j].Season
	})
	return resp
}
