package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ordrz-storefront/cart"
	"ordrz-storefront/models"
	"ordrz-storefront/options"
	"ordrz-storefront/service"
)

// OptionsController handles HTTP requests for product option validation
type OptionsController struct {
	registry *cart.Registry
	catalog  service.CatalogServiceInterface
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOptionsController creates a new OptionsController
func NewOptionsController(registry *cart.Registry, catalog service.CatalogServiceInterface, logger *zap.Logger) *OptionsController {
	return &OptionsController{
		registry: registry,
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
	}
}

// Validate handles POST /products/:id/options/validate
// Runs an options session over the submitted selections and returns its state.
// With submit set, an unsatisfied required group answers 422 with the focused state.
func (c *OptionsController) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/products/")
	productID := strings.TrimSuffix(path, "/options/validate")
	if productID == "" || productID == path || strings.Contains(productID, "/") {
		writeError(w, http.StatusNotFound, CodeProductNotFound, "product id is required")
		return
	}

	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.OptionsValidationRequest
	if err := decodeJSON(r, c.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	oc, err := c.registry.Preferences(sid).GetOrderContext(r.Context())
	if err != nil {
		writeDomainError(w, c.logger, "ValidateOptions", err)
		return
	}
	product, err := c.catalog.FindProduct(r.Context(), oc.BusinessID, productID)
	if err != nil {
		writeDomainError(w, c.logger, "ValidateOptions", err)
		return
	}

	s := options.NewSession(*product)
	defer s.Close()

	if err := s.Load(req.SelectedOptions, req.ActiveOptionID); err != nil {
		writeDomainError(w, c.logger, "ValidateOptions", err)
		return
	}
	s.SetQuantity(req.Quantity)

	status := http.StatusOK
	if req.Submit {
		if _, err := s.Submit(); err != nil {
			if !errors.Is(err, options.ErrInvalidSelection) {
				writeDomainError(w, c.logger, "ValidateOptions", err)
				return
			}
			status = http.StatusUnprocessableEntity
		}
	}

	state := s.State()
	c.logger.Info("✅ ValidateOptions: evaluated",
		zap.String("product_id", productID),
		zap.Bool("form_valid", state.FormValid),
		zap.String("first_invalid", state.FirstInvalid))
	writeJSON(w, status, state)
}
