package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ordrz-storefront/models"
	"ordrz-storefront/utils"
)

const (
	// DefaultProductsAPIURL serves the product catalog of a business
	DefaultProductsAPIURL = "https://tossdown.com/api/products"
	// DefaultBranchesAPIBaseURL serves the branch locations of a business
	DefaultBranchesAPIBaseURL = "https://d9gwfwdle3.execute-api.us-east-1.amazonaws.com/prod/v1"
)

// ErrProductNotFound is returned when the catalog has no product with the given id
var ErrProductNotFound = errors.New("product not found")

// CatalogServiceInterface defines the contract for catalog lookups
type CatalogServiceInterface interface {
	// Products returns the upstream products payload unchanged
	Products(ctx context.Context, businessID string) (json.RawMessage, error)
	// Branches returns the upstream locations payload unchanged
	Branches(ctx context.Context, businessID string) (json.RawMessage, error)
	// FindProduct resolves one product, with its option groups, by menu item id
	FindProduct(ctx context.Context, businessID, productID string) (*models.Product, error)
}

// CatalogService proxies the storefront catalog APIs
type CatalogService struct {
	productsURL string
	branchesURL string
	client      *http.Client
	cb          *gobreaker.CircuitBreaker
	logger      *zap.Logger
}

var _ CatalogServiceInterface = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService. Empty URLs use the production endpoints.
func NewCatalogService(productsURL, branchesBaseURL string, client *http.Client, logger *zap.Logger) *CatalogService {
	if productsURL == "" {
		productsURL = DefaultProductsAPIURL
	}
	if branchesBaseURL == "" {
		branchesBaseURL = DefaultBranchesAPIBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CatalogService{
		productsURL: productsURL,
		branchesURL: strings.TrimRight(branchesBaseURL, "/"),
		client:      client,
		cb:          newBreaker("CatalogAPI", logger),
		logger:      logger,
	}
}

// Products fetches the product catalog of businessID
func (s *CatalogService) Products(ctx context.Context, businessID string) (json.RawMessage, error) {
	s.logger.Info("📥 Catalog: fetching products", zap.String("business_id", businessID))

	endpoint := s.productsURL + "?business_id=" + url.QueryEscape(businessID)
	data, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return data, nil
}

// Branches fetches the branch locations of businessID
func (s *CatalogService) Branches(ctx context.Context, businessID string) (json.RawMessage, error) {
	s.logger.Info("📥 Catalog: fetching branches", zap.String("business_id", businessID))

	endpoint := fmt.Sprintf("%s/business/%s/locations", s.branchesURL, url.PathEscape(businessID))
	data, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch branch data: %w", err)
	}
	return data, nil
}

// FindProduct looks productID up in the catalog of businessID
func (s *CatalogService) FindProduct(ctx context.Context, businessID, productID string) (*models.Product, error) {
	data, err := s.Products(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return findProduct(data, productID)
}

func (s *CatalogService) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return utils.ExecuteWithBreaker(s.cb, func() (json.RawMessage, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API responded with status: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if !json.Valid(data) {
			return nil, errors.New("API responded with invalid JSON")
		}
		return data, nil
	})
}

func findProduct(data json.RawMessage, productID string) (*models.Product, error) {
	var catalog models.CatalogResponse
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for i := range catalog.Items {
		if catalog.Items[i].MenuItemID == productID {
			product := catalog.Items[i]
			if product.Currency == "" {
				product.Currency = catalog.Info.Currency
			}
			return &product, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
}

// CachedCatalogService keeps upstream catalog payloads in Redis
type CachedCatalogService struct {
	next        CatalogServiceInterface
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

var _ CatalogServiceInterface = (*CachedCatalogService)(nil)

// NewCachedCatalogService wraps next with a Redis cache; ttl 0 means ten minutes
func NewCachedCatalogService(next CatalogServiceInterface, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCatalogService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedCatalogService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    ttl,
		logger:      logger,
	}
}

func (s *CachedCatalogService) Products(ctx context.Context, businessID string) (json.RawMessage, error) {
	return s.cached(ctx, "catalog:products:"+businessID, func() (json.RawMessage, error) {
		return s.next.Products(ctx, businessID)
	})
}

func (s *CachedCatalogService) Branches(ctx context.Context, businessID string) (json.RawMessage, error) {
	return s.cached(ctx, "catalog:branches:"+businessID, func() (json.RawMessage, error) {
		return s.next.Branches(ctx, businessID)
	})
}

func (s *CachedCatalogService) FindProduct(ctx context.Context, businessID, productID string) (*models.Product, error) {
	data, err := s.Products(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return findProduct(data, productID)
}

func (s *CachedCatalogService) cached(ctx context.Context, key string, load func() (json.RawMessage, error)) (json.RawMessage, error) {
	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		return json.RawMessage(val), nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("⚠️ Catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	data, err := load()
	if err != nil {
		return nil, err
	}

	if err := s.redisClient.Set(ctx, key, []byte(data), s.cacheTTL).Err(); err != nil {
		s.logger.Warn("⚠️ Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}
