package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordrz-storefront/app/session"
	"ordrz-storefront/cart"
	"ordrz-storefront/models"
	"ordrz-storefront/repository"
	"ordrz-storefront/service"
)

const testSession = "0b6f7a4e-5f0e-4a8e-9d1c-2a7b3c4d5e6f"

type fakeRemote struct {
	MutateFn func(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error)
}

func (f *fakeRemote) Mutate(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error) {
	if f.MutateFn != nil {
		return f.MutateFn(ctx, action, oc, orderID, item)
	}
	return &models.CartAPIResponse{Status: 200}, nil
}

func (f *fakeRemote) Fetch(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error) {
	return &models.CartAPIResponse{Status: 404}, nil
}

func (f *fakeRemote) Clear(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error) {
	return &models.CartAPIResponse{Status: 200}, nil
}

type fakeCatalog struct {
	ProductsFn func(ctx context.Context, businessID string) (json.RawMessage, error)
}

func (f *fakeCatalog) Products(ctx context.Context, businessID string) (json.RawMessage, error) {
	if f.ProductsFn != nil {
		return f.ProductsFn(ctx, businessID)
	}
	return json.RawMessage(`{"items":[]}`), nil
}

func (f *fakeCatalog) Branches(ctx context.Context, businessID string) (json.RawMessage, error) {
	return nil, errors.New("upstream down")
}

func (f *fakeCatalog) FindProduct(ctx context.Context, businessID, productID string) (*models.Product, error) {
	if productID != "101" {
		return nil, service.ErrProductNotFound
	}
	product := testProduct()
	return &product, nil
}

func testProduct() models.Product {
	return models.Product{
		MenuItemID: "101",
		Name:       "Zinger Burger",
		Price:      "500",
		Options: []models.ProductOption{
			{
				ID: "9", Name: "Size", Flag: "1", MinQuantity: "1", Quantity: "1",
				Items: []models.OptionItem{
					{ID: "90", Name: "Regular", Price: "500"},
					{ID: "91", Name: "Large", Price: "650"},
				},
			},
			{
				ID: "12", Name: "Toppings", Flag: "0", MinQuantity: "0", Quantity: "0",
				Items: []models.OptionItem{{ID: "120", Name: "Cheese", Price: "60"}},
			},
		},
	}
}

type testEnv struct {
	registry *cart.Registry
	remote   *fakeRemote
	cart     *CartController
	options  *OptionsController
	order    *OrderContextController
	checkout *CheckoutController
	catalog  *CatalogController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	remote := &fakeRemote{}
	catalog := &fakeCatalog{}
	registry := cart.NewRegistry(remote, repository.NewKVMemoryRepository(), "18", zap.NewNop(), cart.StoreOptions{Currency: "PKR"})
	handoff := service.NewHandoffService("https://checkout.ordrz.com/", "s3cret", time.Minute, zap.NewNop())

	return &testEnv{
		registry: registry,
		remote:   remote,
		cart:     NewCartController(registry, catalog, zap.NewNop()),
		options:  NewOptionsController(registry, catalog, zap.NewNop()),
		order:    NewOrderContextController(registry, zap.NewNop()),
		checkout: NewCheckoutController(registry, handoff, zap.NewNop()),
		catalog:  NewCatalogController(catalog, "18", zap.NewNop()),
	}
}

func do(t *testing.T, h http.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(session.WithID(req.Context(), testSession))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) chooseBranch(t *testing.T) {
	t.Helper()
	rec := do(t, e.order.OrderContext, http.MethodPut, "/order-context", map[string]interface{}{
		"branchId": "21", "orderType": "pickup", "businessId": "18", "branchName": "Gulberg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func addBody(selected map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"productId": "101", "selectedOptions": selected, "quantity": 1}
}

func TestCartController_AddItem(t *testing.T) {
	t.Run("branch_selection_required", func(t *testing.T) {
		env := newTestEnv(t)

		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91"}))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, cart.CodeBranchSelectionRequired, decode[ErrorResponse](t, rec).Error.Code)
	})

	t.Run("adds_after_branch_chosen", func(t *testing.T) {
		env := newTestEnv(t)
		env.chooseBranch(t)

		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91", "12": []string{"120"}}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		snap := decode[models.CartSnapshot](t, rec)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "101_12:[120]|9:91", snap.Items[0].UniqueID)
		assert.Equal(t, 1, snap.TotalItems)
		assert.Equal(t, "Item added to cart", snap.Notification.Message)
	})

	t.Run("invalid_selection", func(t *testing.T) {
		env := newTestEnv(t)
		env.chooseBranch(t)

		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"12": []string{"120"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[ErrorResponse](t, rec)
		assert.Equal(t, CodeInvalidSelection, body.Error.Code)
		assert.Equal(t, "9", body.Error.GroupID)
	})

	t.Run("unknown_product", func(t *testing.T) {
		env := newTestEnv(t)
		env.chooseBranch(t)

		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", map[string]interface{}{"productId": "999"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad_body", func(t *testing.T) {
		env := newTestEnv(t)
		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", map[string]interface{}{"quantity": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("remote_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.chooseBranch(t)
		env.remote.MutateFn = func(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error) {
			return &models.CartAPIResponse{Status: 500, Message: "Branch closed"}, nil
		}

		rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "90"}))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Branch closed", decode[ErrorResponse](t, rec).Error.Message)
	})
}

func TestCartController_Items(t *testing.T) {
	env := newTestEnv(t)
	env.chooseBranch(t)

	rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "90"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, env.cart.Item, http.MethodPatch, "/cart/items/101_9:90", map[string]interface{}{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[models.CartSnapshot](t, rec).TotalItems)

	rec = do(t, env.cart.ItemQuantity, http.MethodPost, "/cart/quantity", map[string]interface{}{
		"productId": "101", "selectedOptions": map[string]interface{}{"9": "90"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ItemQuantityResponse{UniqueID: "101_9:90", Quantity: 3}, decode[models.ItemQuantityResponse](t, rec))

	rec = do(t, env.cart.Item, http.MethodPatch, "/cart/items/101_9:90", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity is required")

	rec = do(t, env.cart.Item, http.MethodDelete, "/cart/items/101_9:90", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.CartSnapshot](t, rec).Items)

	rec = do(t, env.cart.Item, http.MethodDelete, "/cart/items/101_9:90", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, cart.CodeItemNotFound, decode[ErrorResponse](t, rec).Error.Code)

	rec = do(t, env.cart.Cart, http.MethodPost, "/cart", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCartController_ClearAndCheckout(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.checkout.Handoff, http.MethodGet, "/checkout/handoff", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeNoCart, decode[ErrorResponse](t, rec).Error.Code)

	env.chooseBranch(t)
	rec = do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, env.checkout.Handoff, http.MethodGet, "/checkout/handoff", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	handoff := decode[models.CheckoutHandoffResponse](t, rec)
	assert.Equal(t, "21", handoff.Payload.BranchID)
	assert.Contains(t, handoff.URL, "handoff=")

	rec = do(t, env.checkout.Success, http.MethodPost, "/checkout/success", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[models.CartSnapshot](t, rec)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.HasOrderID)

	rec = do(t, env.cart.Cart, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "no order id left to clear")
}

func TestOptionsController_Validate(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.options.Validate, http.MethodPost, "/products/101/options/validate", map[string]interface{}{
		"selectedOptions": map[string]interface{}{"12": []string{"120"}},
		"submit":          true,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	state := decode[models.OptionsValidationResponse](t, rec)
	assert.False(t, state.FormValid)
	assert.Equal(t, "9", state.FirstInvalid)
	assert.Equal(t, "9", state.ScrollTarget)
	assert.True(t, state.ExpandedOptions["9"])
	assert.False(t, state.ExpandedOptions["12"])

	rec = do(t, env.options.Validate, http.MethodPost, "/products/101/options/validate", map[string]interface{}{
		"selectedOptions": map[string]interface{}{"9": "91", "12": []string{"120"}},
		"quantity":        2,
		"submit":          true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[models.OptionsValidationResponse](t, rec)
	assert.True(t, state.FormValid)
	assert.Equal(t, "1420.00", state.TotalPrice)
	assert.Equal(t, "Selected: Large", state.Validation["9"].Message)

	rec = do(t, env.options.Validate, http.MethodPost, "/products/101/options/validate", map[string]interface{}{
		"selectedOptions": map[string]interface{}{"9": []string{"91"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "radio sent as a list")

	rec = do(t, env.options.Validate, http.MethodPost, "/products/404/options/validate", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderContextController(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.order.OrderContext, http.MethodGet, "/order-context", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.OrderContextResponse](t, rec)
	assert.False(t, got.Complete)
	assert.Equal(t, "18", got.OrderContext.BusinessID, "business defaults from config")

	rec = do(t, env.order.OrderContext, http.MethodPut, "/order-context", map[string]interface{}{
		"branchId": "21", "orderType": "takeaway",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, env.order.OrderContext, http.MethodPut, "/order-context", map[string]interface{}{
		"branchId": "21", "orderType": "delivery", "businessId": "18",
		"userLocation": map[string]string{"lat": "31.52", "lng": "74.35"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[models.OrderContextResponse](t, rec)
	assert.True(t, got.Complete)
	assert.Equal(t, &models.UserLocation{Lat: "31.52", Lng: "74.35"}, got.UserLocation)
}

func TestCatalogController(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.catalog.Products, http.MethodGet, "/api/products?wres_id=18", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = do(t, env.catalog.Branches, http.MethodGet, "/api/branches", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to fetch branch data", decode[ErrorResponse](t, rec).Error.Message)
}

func TestImageController_Rejections(t *testing.T) {
	optimizer := service.NewImageOptimizer(t.TempDir(), []string{"images.ordrz.com"}, nil, zap.NewNop())
	c := NewImageController(optimizer, zap.NewNop())

	rec := do(t, c.GetOptimizedImage, http.MethodGet, "/images", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, c.GetOptimizedImage, http.MethodGet, "/images?url=ftp://images.ordrz.com/a.png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, c.GetOptimizedImage, http.MethodGet, "/images?url=https://evil.example/a.png&size=thumb", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeForbidden, decode[ErrorResponse](t, rec).Error.Code)
}

func TestCartController_AddItem_NormalizesSelections(t *testing.T) {
	env := newTestEnv(t)
	env.chooseBranch(t)

	rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91", "12": []string{}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := decode[models.CartSnapshot](t, rec)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "101_9:91", snap.Items[0].UniqueID)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	rec = do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "91", "12": []string{"120", "120"}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap = decode[models.CartSnapshot](t, rec)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "101_12:[120]|9:91", snap.Items[1].UniqueID)
	assert.Equal(t, "1210.00", snap.Items[1].Price)

	rec = do(t, env.cart.ItemQuantity, http.MethodPost, "/cart/quantity", map[string]interface{}{
		"productId": "101", "selectedOptions": map[string]interface{}{"9": "91", "12": []string{}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ItemQuantityResponse{UniqueID: "101_9:91", Quantity: 2}, decode[models.ItemQuantityResponse](t, rec))
}

func TestCartController_AddItem_BranchCheckedBeforeCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", map[string]interface{}{"productId": "999"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, cart.CodeBranchSelectionRequired, decode[ErrorResponse](t, rec).Error.Code)
}

func TestCartController_AddItem_HidesTransportDetail(t *testing.T) {
	env := newTestEnv(t)
	env.chooseBranch(t)
	env.remote.MutateFn = func(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error) {
		return nil, cart.NewTransportFailure("cart service unavailable", errors.New(`Post "http://10.0.0.7:8080/business/18/cart": dial tcp: connection refused`))
	}

	rec := do(t, env.cart.AddItem, http.MethodPost, "/cart/items", addBody(map[string]interface{}{"9": "90"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, cart.CodeTransportFailure, body.Error.Code)
	assert.Equal(t, "cart service unavailable", body.Error.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}
