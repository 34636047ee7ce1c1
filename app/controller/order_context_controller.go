package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ordrz-storefront/cart"
	"ordrz-storefront/models"
	"ordrz-storefront/repository"
)

// OrderContextController handles the branch and order type chosen before ordering
type OrderContextController struct {
	registry *cart.Registry
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderContextController creates a new OrderContextController
func NewOrderContextController(registry *cart.Registry, logger *zap.Logger) *OrderContextController {
	return &OrderContextController{
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}
}

// OrderContext handles GET and PUT /order-context
func (c *OrderContextController) OrderContext(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.get(w, r)
	case http.MethodPut, http.MethodPost:
		c.save(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (c *OrderContextController) get(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	resp, err := c.describe(r, c.registry.Preferences(sid))
	if err != nil {
		writeDomainError(w, c.logger, "GetOrderContext", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// save stores the branch selection; a later add-to-cart retry then passes the precondition
func (c *OrderContextController) save(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.SaveOrderContextRequest
	if err := decodeJSON(r, c.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	prefs := c.registry.Preferences(sid)
	oc := models.OrderContext{
		BranchID:   req.BranchID,
		OrderType:  req.OrderType,
		BusinessID: req.BusinessID,
		BranchName: req.BranchName,
	}
	if err := prefs.SaveOrderContext(r.Context(), oc); err != nil {
		writeDomainError(w, c.logger, "SaveOrderContext", err)
		return
	}
	if req.UserLocation != nil {
		if err := prefs.SaveUserLocation(r.Context(), *req.UserLocation); err != nil {
			writeDomainError(w, c.logger, "SaveOrderContext", err)
			return
		}
	}

	c.logger.Info("✅ SaveOrderContext: saved",
		zap.String("session_id", sid),
		zap.String("branch_id", req.BranchID),
		zap.String("order_type", req.OrderType))

	resp, err := c.describe(r, prefs)
	if err != nil {
		writeDomainError(w, c.logger, "SaveOrderContext", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *OrderContextController) describe(r *http.Request, prefs repository.PreferenceRepositoryInterface) (*models.OrderContextResponse, error) {
	oc, err := prefs.GetOrderContext(r.Context())
	if err != nil {
		return nil, err
	}
	location, err := prefs.GetUserLocation(r.Context())
	if err != nil {
		return nil, err
	}
	orderID, err := prefs.GetOrderID(r.Context())
	if err != nil {
		return nil, err
	}
	return &models.OrderContextResponse{
		OrderContext: oc,
		Complete:     oc.Complete(),
		UserLocation: location,
		HasOrderID:   orderID != "",
	}, nil
}
