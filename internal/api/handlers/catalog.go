package handlers

import (
	"net/http"
	"strconv"

	"github.com/amaumene/gocinarr/internal/models"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves catalog listings and free-text search
type CatalogHandler struct {
	catalog *tmdb.Client
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *tmdb.Client, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListResponse is the catalog listing response
type ListResponse struct {
	Results []models.Media `json:"results"`
}

// List handles category listing requests
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mediaType := models.MediaType(r.URL.Query().Get("type"))
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		writeError(w, http.StatusBadRequest, "type must be movie or tv")
		return
	}
	category := models.Category(r.URL.Query().Get("category"))
	if category == "" {
		category = models.CategoryTrending
	}
	page := queryInt(r, "page", 1)

	results, err := h.catalog.List(r.Context(), mediaType, category, page)
	if err != nil {
		h.logger.WithError(err).Error("Catalog listing failed")
		writeError(w, http.StatusBadGateway, "catalog listing failed")
		return
	}

	writeJSON(w, ListResponse{Results: results})
}

// Search handles free-text search requests
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	results, err := h.catalog.Search(r.Context(), query, queryInt(r, "page", 1))
	if err != nil {
		h.logger.WithError(err).Error("Search failed")
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, ListResponse{Results: results})
}

// Credits handles cast listing requests
func (h *CatalogHandler) Credits(w http.ResponseWriter, r *http.Request) {
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

	cast, err := h.catalog.Credits(r.Context(), mediaType, id)
	if err != nil {
		h.logger.WithError(err).Error("Credits lookup failed")
		writeError(w, http.StatusBadGateway, "credits lookup failed")
		return
	}

	writeJSON(w, map[string]any{"cast": cast})
}

// Collection handles franchise grouping requests
func (h *CatalogHandler) Collection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	name, parts, err := h.catalog.Collection(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Collection lookup failed")
		writeError(w, http.StatusBadGateway, "collection lookup failed")
		return
	}

	writeJSON(w, map[string]any{"name": name, "parts": parts})
}

// Person handles filmography requests
func (h *CatalogHandler) Person(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	credits, err := h.catalog.PersonCredits(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Person credits lookup failed")
		writeError(w, http.StatusBadGateway, "person credits lookup failed")
		return
	}

	writeJSON(w, ListResponse{Results: credits})
}

// queryInt reads an integer query parameter with a default
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
