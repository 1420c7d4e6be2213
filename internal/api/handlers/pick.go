package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/amaumene/gocinarr/internal/models"
	"github.com/sirupsen/logrus"
)

// PickHandler serves the daily recommendation. Favorites are owned by the
// caller and supplied in the request body.
type PickHandler struct {
	recommendCtrl *controllers.RecommendController
	logger        *logrus.Logger
}

// NewPickHandler creates a new pick handler
func NewPickHandler(recommendCtrl *controllers.RecommendController, logger *logrus.Logger) *PickHandler {
	return &PickHandler{recommendCtrl: recommendCtrl, logger: logger}
}

// PickRequest is the daily pick request body
type PickRequest struct {
	Favorites []*models.Media `json:"favorites"`
}

// ServeHTTP handles the daily pick endpoint
func (h *PickHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	refresh := r.URL.Query().Get("refresh") == "1" || r.URL.Query().Get("refresh") == "true"

	pick, err := h.recommendCtrl.DailyPick(r.Context(), req.Favorites, refresh)
	if errors.Is(err, controllers.ErrNoRecommendation) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Daily pick failed")
		writeError(w, http.StatusInternalServerError, "daily pick failed")
		return
	}

	writeJSON(w, pick)
}
