package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Cart API actions
const (
	ActionAdd    = "add"
	ActionSub    = "sub"
	ActionDelete = "delete"
	ActionClear  = "clear"
)

// OptionDTO represents one option item in the remote cart payload
type OptionDTO struct {
	Name         string        `json:"name"`
	Price        string        `json:"price"`
	Quantity     int           `json:"quantity"`
	InnerOptions []interface{} `json:"inner_options"`
}

// LineItemDTO represents a cart line item in the shape the remote cart service expects.
// Options are grouped by option group name.
type LineItemDTO struct {
	ID                     string                 `json:"id"`
	MenuItemID             string                 `json:"menu_item_id"`
	Image                  string                 `json:"image"`
	Name                   string                 `json:"name"`
	Price                  string                 `json:"price"`
	Slug                   string                 `json:"slug"`
	Qty                    int                    `json:"qty"`
	Discount               string                 `json:"discount"`
	ItemLevelDiscountValue string                 `json:"item_level_discount_value"`
	Tax                    string                 `json:"tax"`
	ItemLevelTaxValue      string                 `json:"item_level_tax_value"`
	WeightValue            string                 `json:"weight_value"`
	CalculatedWeight       string                 `json:"calculated_weight"`
	WeightUnit             string                 `json:"weight_unit"`
	Comment                string                 `json:"comment"`
	CategoryID             string                 `json:"category_id"`
	BrandID                string                 `json:"brand_id"`
	ProductCode            string                 `json:"product_code"`
	CategoryName           string                 `json:"category_name"`
	Options                map[string][]OptionDTO `json:"options"`
}

// CartAPIRequest represents the payload POSTed to the remote cart endpoint
// Example: {
//   "action": "add",
//   "current_date": "2026-10-17 12:30:00",
//   "unique_order_id": "3f2a9c0e5d4b4e1f9a7c6b5d4e3f2a1b",
//   "order_type": "pickup",
//   "business_id": "18",
//   "branch_id": "18",
//   "items": [{"id": "101", "menu_item_id": "101", "qty": 1, ...}]
// }
// Clear requests only carry action, unique_order_id and business_id.
type CartAPIRequest struct {
	Action        string        `json:"action"`
	CurrentDate   string        `json:"current_date,omitempty"`
	UniqueOrderID string        `json:"unique_order_id"`
	OrderType     string        `json:"order_type,omitempty"`
	BusinessID    string        `json:"business_id"`
	BranchID      string        `json:"branch_id,omitempty"`
	Items         []LineItemDTO `json:"items,omitempty"`
}

// FlexString decodes a JSON string or number into text
type FlexString string

// UnmarshalJSON accepts strings, numbers and null
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlexString(strings.TrimSpace(n.String()))
	return nil
}

// RemoteCartItem represents a line item as returned by GET cart
type RemoteCartItem struct {
	MenuItemID   FlexString      `json:"menu_item_id"`
	OdetailID    FlexString      `json:"odetailid"`
	DName        string          `json:"dname"`
	DPrice       FlexString      `json:"dprice"`
	DQty         int             `json:"dqty"`
	Discount     FlexString      `json:"discount"`
	CategoryID   FlexString      `json:"category_id"`
	CategoryName string          `json:"category_name"`
	OptionSet    json.RawMessage `json:"option_set"`
}

// CartAPIResult represents the result section of a remote cart response
type CartAPIResult struct {
	TempOrderID string           `json:"temp_order_id,omitempty"`
	Items       []RemoteCartItem `json:"items,omitempty"`
}

// CartAPIResponse represents any response of the remote cart service.
// Status 200 is the only success value regardless of HTTP transport status.
type CartAPIResponse struct {
	Status  int            `json:"status"`
	Message string         `json:"message,omitempty"`
	Result  *CartAPIResult `json:"result,omitempty"`
}
