package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ordrz-storefront/cart"
	"ordrz-storefront/metrics"
	"ordrz-storefront/models"
	"ordrz-storefront/utils"
)

// DefaultCartAPIBaseURL is the production cart service
const DefaultCartAPIBaseURL = "https://td0c8x9qb3.execute-api.us-east-1.amazonaws.com/prod/v1"

const (
	currentDateLayout = "2006-01-02 15:04:05"
	defaultBrandID    = "176"
	maxResponseBytes  = 4 << 20
)

// CartAPIService talks to the remote cart service
type CartAPIService struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

var _ cart.RemoteCart = (*CartAPIService)(nil)

// NewCartAPIService creates a new CartAPIService.
// An empty baseURL uses DefaultCartAPIBaseURL; m may be nil.
func NewCartAPIService(baseURL string, client *http.Client, m *metrics.Metrics, logger *zap.Logger) *CartAPIService {
	if baseURL == "" {
		baseURL = DefaultCartAPIBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CartAPIService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		cb:      newBreaker("CartAPI", logger),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// newBreaker trips after a majority of transport failures
func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("⚠️ Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Mutate sends a single line item with add, sub or delete.
// Order type falls back to pickup and the branch to the business id.
func (s *CartAPIService) Mutate(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error) {
	orderType := oc.OrderType
	if orderType == "" {
		orderType = models.OrderTypePickup
	}
	branchID := oc.BranchID
	if branchID == "" {
		branchID = oc.BusinessID
	}

	payload := models.CartAPIRequest{
		Action:        action,
		CurrentDate:   s.now().Format(currentDateLayout),
		UniqueOrderID: orderID,
		OrderType:     orderType,
		BusinessID:    oc.BusinessID,
		BranchID:      branchID,
		Items:         []models.LineItemDTO{ToLineItemDTO(item)},
	}

	s.logger.Debug("📤 CartAPI: sending item",
		zap.String("action", action),
		zap.String("order_id", orderID),
		zap.String("menu_item_id", item.ID),
		zap.Int("qty", item.Quantity))

	resp, err := s.post(ctx, action, oc.BusinessID, payload)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return resp, cart.NewRemoteRejected(resp.Message)
	}
	return resp, nil
}

// Clear empties the remote cart of orderID
func (s *CartAPIService) Clear(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error) {
	payload := models.CartAPIRequest{
		Action:        models.ActionClear,
		UniqueOrderID: orderID,
		BusinessID:    businessID,
	}

	resp, err := s.post(ctx, models.ActionClear, businessID, payload)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return resp, cart.NewRemoteRejected(resp.Message)
	}
	return resp, nil
}

// Fetch loads the remote cart of orderID. The application status is left to the caller.
func (s *CartAPIService) Fetch(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error) {
	endpoint := fmt.Sprintf("%s/business/%s/cart/%s", s.baseURL, url.PathEscape(businessID), url.PathEscape(orderID))

	return s.do(ctx, "fetch", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, true)
}

func (s *CartAPIService) post(ctx context.Context, action, businessID string, payload models.CartAPIRequest) (*models.CartAPIResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, cart.NewTransportFailure("failed to encode cart request", err)
	}
	endpoint := fmt.Sprintf("%s/business/%s/cart", s.baseURL, url.PathEscape(businessID))

	return s.do(ctx, action, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, false)
}

// do runs one call through the breaker. Only transport and decoding failures count
// against the breaker; application statuses are judged by the caller.
// strictHTTP rejects non-2xx transport statuses before decoding.
func (s *CartAPIService) do(ctx context.Context, action string, build func() (*http.Request, error), strictHTTP bool) (*models.CartAPIResponse, error) {
	start := time.Now()

	resp, err := utils.ExecuteWithBreaker(s.cb, func() (*models.CartAPIResponse, error) {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}

		httpResp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to call cart service: %w", err)
		}
		defer httpResp.Body.Close()

		if strictHTTP && (httpResp.StatusCode < 200 || httpResp.StatusCode > 299) {
			return nil, fmt.Errorf("cart service responded with status: %d", httpResp.StatusCode)
		}

		var decoded models.CartAPIResponse
		if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("failed to decode cart response: %w", err)
		}
		return &decoded, nil
	})

	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.ObserveRemote(action, "error", elapsed)
		s.logger.Error("❌ CartAPI: request failed", zap.String("action", action), zap.Error(err))
		return nil, cart.NewTransportFailure("cart service unavailable", err)
	}

	outcome := "ok"
	if resp.Status != http.StatusOK {
		outcome = "rejected"
		s.logger.Warn("⚠️ CartAPI: request rejected",
			zap.String("action", action),
			zap.Int("status", resp.Status),
			zap.String("message", resp.Message))
	}
	s.metrics.ObserveRemote(action, outcome, elapsed)
	return resp, nil
}

// ToLineItemDTO renders a cart line item in the remote payload shape.
// Options are grouped by group name; repeated item names within a group are merged
// by summing their quantities.
func ToLineItemDTO(item models.CartLineItem) models.LineItemDTO {
	productID := item.ID
	if productID == "" {
		productID = "0"
	}
	categoryID := item.CategoryID
	if categoryID == "" {
		categoryID = "0"
	}
	categoryName := item.CategoryName
	if categoryName == "" {
		categoryName = "Unknown"
	}
	discount := item.Discount
	if discount == "" {
		discount = "0"
	}

	grouped := make(map[string][]models.OptionDTO)
	for _, opt := range item.Options {
		group := grouped[opt.OptionName]
		merged := false
		for i := range group {
			if group[i].Name == opt.ItemName {
				group[i].Quantity += opt.EffectiveQuantity()
				merged = true
				break
			}
		}
		if !merged {
			price := opt.ItemPrice
			if price == "" {
				price = "0"
			}
			group = append(group, models.OptionDTO{
				Name:         opt.ItemName,
				Price:        price,
				Quantity:     opt.EffectiveQuantity(),
				InnerOptions: []interface{}{},
			})
		}
		grouped[opt.OptionName] = group
	}

	return models.LineItemDTO{
		ID:                     productID,
		MenuItemID:             productID,
		Image:                  item.Image,
		Name:                   item.Name,
		Price:                  item.Price,
		Slug:                   "",
		Qty:                    item.Quantity,
		Discount:               discount,
		ItemLevelDiscountValue: "0",
		Tax:                    "0",
		ItemLevelTaxValue:      "0",
		WeightValue:            "1.0",
		CalculatedWeight:       "1",
		WeightUnit:             "kg",
		Comment:                "",
		CategoryID:             categoryID,
		BrandID:                defaultBrandID,
		ProductCode:            "0",
		CategoryName:           categoryName,
		Options:                grouped,
	}
}
