package controller

import (
	"net/http"

	"go.uber.org/zap"

	"ordrz-storefront/cart"
	"ordrz-storefront/service"
)

// CheckoutController hands the cart over to the hosted checkout and tears it down afterwards
type CheckoutController struct {
	registry *cart.Registry
	handoff  *service.HandoffService
	logger   *zap.Logger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(registry *cart.Registry, handoff *service.HandoffService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{registry: registry, handoff: handoff, logger: logger}
}

// Handoff handles GET /checkout/handoff
func (c *CheckoutController) Handoff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	out, err := c.handoff.Build(r.Context(), c.registry.Preferences(sid), websiteLink(r))
	if err != nil {
		writeDomainError(w, c.logger, "Handoff", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Success handles POST /checkout/success
func (c *CheckoutController) Success(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	store := c.registry.Store(r.Context(), sid)
	if err := store.OrderPlaced(r.Context()); err != nil {
		writeDomainError(w, c.logger, "CheckoutSuccess", err)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// websiteLink is the storefront origin the checkout links back to
func websiteLink(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
