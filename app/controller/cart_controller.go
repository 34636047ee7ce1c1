package controller

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ordrz-storefront/cart"
	"ordrz-storefront/models"
	"ordrz-storefront/options"
	"ordrz-storefront/service"
)

// CartController handles HTTP requests for the session cart
type CartController struct {
	registry *cart.Registry
	catalog  service.CatalogServiceInterface
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(registry *cart.Registry, catalog service.CatalogServiceInterface, logger *zap.Logger) *CartController {
	return &CartController{
		registry: registry,
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
	}
}

// Cart handles GET /cart (snapshot) and DELETE /cart (clear)
func (c *CartController) Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.GetCart(w, r)
	case http.MethodDelete:
		c.ClearCart(w, r)
	default:
		methodNotAllowed(w)
	}
}

// GetCart handles GET /cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.registry.Store(r.Context(), sid).Snapshot())
}

// ClearCart handles DELETE /cart
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	c.logger.Info("📥 ClearCart: received request", zap.String("session_id", sid))

	store := c.registry.Store(r.Context(), sid)
	if err := store.ClearCart(r.Context()); err != nil {
		writeDomainError(w, c.logger, "ClearCart", err)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// AddItem handles POST /cart/items
// A branch must be chosen first; the normalized selection is then gated against the
// catalog product before it is added.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.AddToCartRequest
	if err := decodeJSON(r, c.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	c.logger.Info("📋 AddItem: request decoded",
		zap.String("session_id", sid),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity))

	oc, err := c.registry.Preferences(sid).GetOrderContext(r.Context())
	if err != nil {
		writeDomainError(w, c.logger, "AddItem", err)
		return
	}
	if !oc.Complete() {
		writeDomainError(w, c.logger, "AddItem", cart.ErrBranchSelectionRequired)
		return
	}

	product, err := c.catalog.FindProduct(r.Context(), oc.BusinessID, req.ProductID)
	if err != nil {
		writeDomainError(w, c.logger, "AddItem", err)
		return
	}

	selections := req.SelectedOptions.Normalize()
	if err := options.Validate(*product, selections); err != nil {
		writeDomainError(w, c.logger, "AddItem", err)
		return
	}

	store := c.registry.Store(r.Context(), sid)
	if _, err := store.AddItem(r.Context(), *product, selections, req.Quantity); err != nil {
		writeDomainError(w, c.logger, "AddItem", err)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// Item handles PATCH /cart/items/:uniqueId (quantity) and DELETE /cart/items/:uniqueId
func (c *CartController) Item(w http.ResponseWriter, r *http.Request) {
	uniqueID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if uniqueID == "" || strings.Contains(uniqueID, "/") {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "unique id is required")
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		c.updateQuantity(w, r, uniqueID)
	case http.MethodDelete:
		c.removeItem(w, r, uniqueID)
	default:
		methodNotAllowed(w)
	}
}

func (c *CartController) updateQuantity(w http.ResponseWriter, r *http.Request, uniqueID string) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := decodeJSON(r, c.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	store := c.registry.Store(r.Context(), sid)
	if err := store.UpdateQuantity(r.Context(), uniqueID, *req.Quantity); err != nil {
		writeDomainError(w, c.logger, "UpdateQuantity", err)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

func (c *CartController) removeItem(w http.ResponseWriter, r *http.Request, uniqueID string) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	store := c.registry.Store(r.Context(), sid)
	if err := store.RemoveItem(r.Context(), uniqueID); err != nil {
		writeDomainError(w, c.logger, "RemoveItem", err)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// ItemQuantity handles POST /cart/quantity
// Reports how many units of a configured product are in the cart and whether it is syncing.
func (c *CartController) ItemQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.ItemQuantityRequest
	if err := decodeJSON(r, c.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	selections := req.SelectedOptions.Normalize()
	store := c.registry.Store(r.Context(), sid)
	writeJSON(w, http.StatusOK, models.ItemQuantityResponse{
		UniqueID:  cart.GenerateUniqueID(req.ProductID, selections),
		Quantity:  store.GetItemQuantity(req.ProductID, selections),
		IsLoading: store.IsItemLoading(req.ProductID, selections),
	})
}
