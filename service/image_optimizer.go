package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// DefaultImageCacheDir holds optimized product images
	DefaultImageCacheDir = "cache/images"
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxImageBytes = 10 << 20
)

var (
	// ErrImageHostNotAllowed is returned for image URLs outside the allowed hosts
	ErrImageHostNotAllowed = errors.New("image host not allowed")
	// ErrInvalidImageURL is returned for anything but an absolute http(s) URL
	ErrInvalidImageURL = errors.New("invalid image url")
)

// ImageOptimizer resizes product images and keeps the results on disk
type ImageOptimizer struct {
	cacheDir     string
	allowedHosts map[string]bool
	client       *http.Client
	logger       *zap.Logger
}

// NewImageOptimizer creates a new ImageOptimizer. Only images on allowedHosts are fetched;
// with no hosts every URL is refused.
func NewImageOptimizer(cacheDir string, allowedHosts []string, client *http.Client, logger *zap.Logger) *ImageOptimizer {
	if cacheDir == "" {
		cacheDir = DefaultImageCacheDir
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}
	return &ImageOptimizer{cacheDir: cacheDir, allowedHosts: hosts, client: client, logger: logger}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (o *ImageOptimizer) EnsureCacheDir() error {
	if err := os.MkdirAll(o.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for an image URL and size
func (o *ImageOptimizer) CachePath(imageURL, size string) string {
	sum := sha256.Sum256([]byte(imageURL))
	filename := fmt.Sprintf("product_%s_%s.jpg", hex.EncodeToString(sum[:12]), size)
	return filepath.Join(o.cacheDir, filename)
}

// Optimized returns the optimized JPEG for imageURL, from cache when present
func (o *ImageOptimizer) Optimized(ctx context.Context, imageURL, size string) ([]byte, error) {
	if err := o.checkURL(imageURL); err != nil {
		return nil, err
	}
	size = normalizeSize(size)

	cachePath := o.CachePath(imageURL, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		o.logger.Debug("📦 Image served from cache", zap.String("path", cachePath))
		return data, nil
	}

	raw, err := o.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}
	o.logger.Info("✓ Image optimized",
		zap.String("size", size),
		zap.Int("input_bytes", len(raw)),
		zap.Int("output_bytes", len(optimized)))

	if err := saveToCache(cachePath, optimized); err != nil {
		o.logger.Warn("⚠️ Failed to cache image", zap.String("path", cachePath), zap.Error(err))
	}
	return optimized, nil
}

func (o *ImageOptimizer) checkURL(imageURL string) error {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidImageURL, imageURL)
	}
	if !o.allowedHosts[strings.ToLower(u.Hostname())] {
		return fmt.Errorf("%w: %s", ErrImageHostNotAllowed, u.Hostname())
	}
	return nil
}

func (o *ImageOptimizer) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

func saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

func normalizeSize(size string) string {
	if size == "thumb" {
		return size
	}
	return "medium"
}

// OptimizeImage converts an image to JPEG, shrinking it to fit the size's max dimension.
// size is "thumb" or "medium"; anything else counts as medium.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if normalizeSize(size) == "thumb" {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
