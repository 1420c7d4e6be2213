package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/amaumene/gocinarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// ImageHandler proxies catalog images through the bounded byte cache
type ImageHandler struct {
	images  *cache.Images
	fetcher *fetch.Client
	logger  *logrus.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(images *cache.Images, fetcher *fetch.Client, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{images: images, fetcher: fetcher, logger: logger}
}

// ServeHTTP handles the image proxy endpoint
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.URL.Query().Get("path")
	if !strings.HasPrefix(path, "/") || strings.Contains(path, "..") {
		writeError(w, http.StatusBadRequest, "path must be an image path like /abc.jpg")
		return
	}
	size := r.URL.Query().Get("size")
	if size == "" {
		size = "w500"
	}

	key := size + path
	data, err := h.images.GetOrLoad(r.Context(), key, func(ctx context.Context, _ string) ([]byte, error) {
		return h.fetcher.GetBytes(ctx, tmdb.ImageURL(path, size))
	})
	if err != nil {
		h.logger.WithError(err).WithField("path", path).Warn("Image fetch failed")
		writeError(w, http.StatusBadGateway, "image fetch failed")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
