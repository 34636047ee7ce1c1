package controller

import (
	"net/http"

	"go.uber.org/zap"

	"ordrz-storefront/service"
)

// CatalogController proxies the catalog APIs for the storefront
type CatalogController struct {
	catalog           service.CatalogServiceInterface
	defaultBusinessID string
	logger            *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog service.CatalogServiceInterface, defaultBusinessID string, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalog: catalog, defaultBusinessID: defaultBusinessID, logger: logger}
}

// Products handles GET /api/products?wres_id=
func (c *CatalogController) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	businessID := c.businessID(r)
	data, err := c.catalog.Products(r.Context(), businessID)
	if err != nil {
		c.logger.Error("❌ Products: upstream failed", zap.String("business_id", businessID), zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeUpstreamFailure, "Failed to fetch products")
		return
	}
	c.writeRaw(w, data)
}

// Branches handles GET /api/branches?wres_id=
func (c *CatalogController) Branches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	businessID := c.businessID(r)
	data, err := c.catalog.Branches(r.Context(), businessID)
	if err != nil {
		c.logger.Error("❌ Branches: upstream failed", zap.String("business_id", businessID), zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeUpstreamFailure, "Failed to fetch branch data")
		return
	}
	c.writeRaw(w, data)
}

func (c *CatalogController) businessID(r *http.Request) string {
	if id := r.URL.Query().Get("wres_id"); id != "" {
		return id
	}
	return c.defaultBusinessID
}

func (c *CatalogController) writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		c.logger.Warn("⚠️ Catalog: failed to write response", zap.Error(err))
	}
}
