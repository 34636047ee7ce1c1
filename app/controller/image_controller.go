package controller

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"ordrz-storefront/service"
)

// ImageController serves optimized product images
type ImageController struct {
	optimizer *service.ImageOptimizer
	logger    *zap.Logger
}

// NewImageController creates a new ImageController
func NewImageController(optimizer *service.ImageOptimizer, logger *zap.Logger) *ImageController {
	return &ImageController{optimizer: optimizer, logger: logger}
}

// GetOptimizedImage handles GET /images?url=&size=thumb|medium
func (c *ImageController) GetOptimizedImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "url is required")
		return
	}
	size := r.URL.Query().Get("size")

	data, err := c.optimizer.Optimized(r.Context(), imageURL, size)
	switch {
	case errors.Is(err, service.ErrInvalidImageURL):
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrImageHostNotAllowed):
		writeDomainError(w, c.logger, "GetOptimizedImage", err)
		return
	case err != nil:
		c.logger.Error("❌ GetOptimizedImage: failed", zap.String("url", imageURL), zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeUpstreamFailure, "Failed to load image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		c.logger.Warn("⚠️ GetOptimizedImage: failed to write image", zap.Error(err))
	}
}

