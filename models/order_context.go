package models

// Order types accepted by the remote cart service
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// OrderContext represents the branch/order-type selection required before any cart mutation
type OrderContext struct {
	BranchID   string `json:"branchId"`
	OrderType  string `json:"orderType"`
	BusinessID string `json:"businessId"`
	BranchName string `json:"branchName,omitempty"`
}

// Complete reports whether a branch and an order type have been chosen
func (o OrderContext) Complete() bool {
	return o.BranchID != "" && o.OrderType != ""
}

// SaveOrderContextRequest represents the body of PUT /order-context
// Example: {"branchId": "18", "orderType": "delivery", "businessId": "18", "branchName": "Gulberg, Main Boulevard", "userLocation": {"lat": "31.5204", "lng": "74.3587"}}
type SaveOrderContextRequest struct {
	BranchID     string        `json:"branchId" validate:"required"`
	OrderType    string        `json:"orderType" validate:"required,oneof=delivery pickup"`
	BusinessID   string        `json:"businessId"`
	BranchName   string        `json:"branchName"`
	UserLocation *UserLocation `json:"userLocation,omitempty"`
}

// OrderContextResponse represents the response of GET and PUT /order-context
type OrderContextResponse struct {
	OrderContext OrderContext  `json:"orderContext"`
	Complete     bool          `json:"complete"`
	UserLocation *UserLocation `json:"userLocation,omitempty"`
	HasOrderID   bool          `json:"hasOrderId"`
}
