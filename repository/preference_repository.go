package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordrz-storefront/models"
)

// Names under which session state is stored
const (
	KeyBranchID      = "branch_id"
	KeyOrderType     = "order_type"
	KeyBusinessID    = "wres_id"
	KeyBranchName    = "branch_name"
	KeyUniqueOrderID = "unique_order_id"
	KeyTempOrderID   = "temp_order_id"
	KeyCart          = "cart"
	KeyUserLatitude  = "userLatitude"
	KeyUserLongitude = "userLongitude"
)

// PreferenceRepository reads and writes one session's cart state through a key-value backend
type PreferenceRepository struct {
	kv                KeyValueRepositoryInterface
	scope             string
	defaultBusinessID string
	logger            *zap.Logger
}

// NewPreferenceRepository creates a PreferenceRepository bound to a session scope
func NewPreferenceRepository(kv KeyValueRepositoryInterface, scope, defaultBusinessID string, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		kv:                kv,
		scope:             scope,
		defaultBusinessID: defaultBusinessID,
		logger:            logger,
	}
}

// Ensure PreferenceRepository implements PreferenceRepositoryInterface
var _ PreferenceRepositoryInterface = (*PreferenceRepository)(nil)

// get treats a missing name as an empty value
func (r *PreferenceRepository) get(ctx context.Context, name string) (string, error) {
	value, err := r.kv.Get(ctx, r.scope, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetOrderContext returns the saved branch, order type and business.
// The business id falls back to the configured default.
func (r *PreferenceRepository) GetOrderContext(ctx context.Context) (models.OrderContext, error) {
	var oc models.OrderContext
	fields := []struct {
		name string
		dst  *string
	}{
		{KeyBranchID, &oc.BranchID},
		{KeyOrderType, &oc.OrderType},
		{KeyBusinessID, &oc.BusinessID},
		{KeyBranchName, &oc.BranchName},
	}
	for _, f := range fields {
		value, err := r.get(ctx, f.name)
		if err != nil {
			return models.OrderContext{}, fmt.Errorf("failed to read order context: %w", err)
		}
		*f.dst = value
	}

	if oc.BusinessID == "" {
		oc.BusinessID = r.defaultBusinessID
	}
	return oc, nil
}

// SaveOrderContext stores the order context; an empty business id or branch name is left untouched
func (r *PreferenceRepository) SaveOrderContext(ctx context.Context, oc models.OrderContext) error {
	values := map[string]string{
		KeyBranchID:  oc.BranchID,
		KeyOrderType: oc.OrderType,
	}
	if oc.BusinessID != "" {
		values[KeyBusinessID] = oc.BusinessID
	}
	if oc.BranchName != "" {
		values[KeyBranchName] = oc.BranchName
	}

	for name, value := range values {
		if err := r.kv.Set(ctx, r.scope, name, value); err != nil {
			return fmt.Errorf("failed to save order context: %w", err)
		}
	}

	r.logger.Info("✅ SaveOrderContext: saved",
		zap.String("branch_id", oc.BranchID),
		zap.String("order_type", oc.OrderType))
	return nil
}

// GetOrderID returns the durable order id, preferring unique_order_id over temp_order_id.
// It returns an empty string when neither exists.
func (r *PreferenceRepository) GetOrderID(ctx context.Context) (string, error) {
	for _, name := range []string{KeyUniqueOrderID, KeyTempOrderID} {
		value, err := r.get(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to read order id: %w", err)
		}
		if value != "" {
			return value, nil
		}
	}
	return "", nil
}

// EnsureOrderID returns the durable order id, creating one if none exists
func (r *PreferenceRepository) EnsureOrderID(ctx context.Context) (string, error) {
	orderID, err := r.GetOrderID(ctx)
	if err != nil {
		return "", err
	}
	if orderID != "" {
		return orderID, nil
	}

	orderID = strings.ReplaceAll(uuid.New().String(), "-", "")
	if err := r.kv.Set(ctx, r.scope, KeyUniqueOrderID, orderID); err != nil {
		return "", fmt.Errorf("failed to save order id: %w", err)
	}

	r.logger.Info("🆕 EnsureOrderID: created order id", zap.String("order_id", orderID))
	return orderID, nil
}

// SaveTempOrderID stores the order id assigned by the remote cart service
func (r *PreferenceRepository) SaveTempOrderID(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.kv.Set(ctx, r.scope, KeyTempOrderID, id); err != nil {
		return fmt.Errorf("failed to save temp order id: %w", err)
	}
	return nil
}

// ClearOrderIDs forgets both order ids after an order has been placed
func (r *PreferenceRepository) ClearOrderIDs(ctx context.Context) error {
	for _, name := range []string{KeyUniqueOrderID, KeyTempOrderID} {
		if err := r.kv.Delete(ctx, r.scope, name); err != nil {
			return fmt.Errorf("failed to clear order id: %w", err)
		}
	}
	return nil
}

// GetSavedCart returns the mirrored item list; a missing or unreadable mirror yields nil
func (r *PreferenceRepository) GetSavedCart(ctx context.Context) ([]models.CartLineItem, error) {
	raw, err := r.get(ctx, KeyCart)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved cart: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.logger.Warn("⚠️ GetSavedCart: failed to parse saved cart", zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// SaveCart mirrors the item list
func (r *PreferenceRepository) SaveCart(ctx context.Context, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.kv.Set(ctx, r.scope, KeyCart, string(data)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// GetUserLocation returns the stored coordinates, or nil when none were saved
func (r *PreferenceRepository) GetUserLocation(ctx context.Context) (*models.UserLocation, error) {
	lat, err := r.get(ctx, KeyUserLatitude)
	if err != nil {
		return nil, fmt.Errorf("failed to read location: %w", err)
	}
	lng, err := r.get(ctx, KeyUserLongitude)
	if err != nil {
		return nil, fmt.Errorf("failed to read location: %w", err)
	}
	if lat == "" || lng == "" {
		return nil, nil
	}
	return &models.UserLocation{Lat: lat, Lng: lng}, nil
}

// SaveUserLocation stores the customer's coordinates
func (r *PreferenceRepository) SaveUserLocation(ctx context.Context, loc models.UserLocation) error {
	if err := r.kv.Set(ctx, r.scope, KeyUserLatitude, loc.Lat); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	if err := r.kv.Set(ctx, r.scope, KeyUserLongitude, loc.Lng); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}
