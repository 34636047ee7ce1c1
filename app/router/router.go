package router

import (
	"net/http"

	"ordrz-storefront/app/controller"
)

type Controllers struct {
	Cart         *controller.CartController
	Options      *controller.OptionsController
	OrderContext *controller.OrderContextController
	Checkout     *controller.CheckoutController
	Catalog      *controller.CatalogController
	Image        *controller.ImageController
	Metrics      http.Handler
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every storefront route on mux.
// Session-bound routes go through sessionMiddleware.
func SetupRoutes(mux *http.ServeMux, controllers *Controllers, sessionMiddleware func(http.Handler) http.Handler) {
	withSession := func(h http.HandlerFunc) http.Handler {
		return sessionMiddleware(h)
	}

	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Prometheus metrics
	if controllers.Metrics != nil {
		mux.Handle("/metrics", controllers.Metrics)
	}

	// Cart routes
	// GET snapshot, DELETE clear
	mux.Handle("/cart", withSession(controllers.Cart.Cart))

	// Add item
	mux.Handle("/cart/items", withSession(controllers.Cart.AddItem))

	// PATCH quantity, DELETE item
	mux.Handle("/cart/items/", withSession(controllers.Cart.Item))

	// Quantity and loading state of one configured product
	mux.Handle("/cart/quantity", withSession(controllers.Cart.ItemQuantity))

	// Option validation: POST /products/:id/options/validate
	mux.Handle("/products/", withSession(controllers.Options.Validate))

	// Branch and order type
	mux.Handle("/order-context", withSession(controllers.OrderContext.OrderContext))

	// Checkout handoff and teardown
	mux.Handle("/checkout/handoff", withSession(controllers.Checkout.Handoff))
	mux.Handle("/checkout/success", withSession(controllers.Checkout.Success))

	// Catalog proxy
	mux.HandleFunc("/api/products", controllers.Catalog.Products)
	mux.HandleFunc("/api/branches", controllers.Catalog.Branches)

	// Optimized product images
	mux.HandleFunc("/images", controllers.Image.GetOptimizedImage)
}
