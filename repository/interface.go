package repository

import (
	"context"
	"errors"

	"ordrz-storefront/models"
)

// ErrNotFound is returned by key-value backends when a name has no value
var ErrNotFound = errors.New("key not found")

// KeyValueRepositoryInterface defines the contract for durable get/set/delete by name.
// Scope isolates one browser session from another.
type KeyValueRepositoryInterface interface {
	Get(ctx context.Context, scope, name string) (string, error)
	Set(ctx context.Context, scope, name, value string) error
	Delete(ctx context.Context, scope, name string) error
}

// PreferenceRepositoryInterface defines the contract for the session state the cart depends on:
// order context, the durable order id and the mirrored item list
type PreferenceRepositoryInterface interface {
	GetOrderContext(ctx context.Context) (models.OrderContext, error)
	SaveOrderContext(ctx context.Context, oc models.OrderContext) error
	GetOrderID(ctx context.Context) (string, error)
	EnsureOrderID(ctx context.Context) (string, error)
	SaveTempOrderID(ctx context.Context, id string) error
	ClearOrderIDs(ctx context.Context) error
	GetSavedCart(ctx context.Context) ([]models.CartLineItem, error)
	SaveCart(ctx context.Context, items []models.CartLineItem) error
	GetUserLocation(ctx context.Context) (*models.UserLocation, error)
	SaveUserLocation(ctx context.Context, loc models.UserLocation) error
}
