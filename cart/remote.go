package cart

import (
	"context"

	"ordrz-storefront/models"
)

// RemoteCart is the remote cart service the store keeps in sync with.
// Mutate and Clear return a *Error with CodeRemoteRejected when the service answers
// with a status other than 200, and CodeTransportFailure when the call itself fails.
// Fetch returns the decoded response without judging its status.
type RemoteCart interface {
	Mutate(ctx context.Context, action string, oc models.OrderContext, orderID string, item models.CartLineItem) (*models.CartAPIResponse, error)
	Fetch(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error)
	Clear(ctx context.Context, businessID, orderID string) (*models.CartAPIResponse, error)
}
