package models

// OptionSelection represents one resolved option item attached to a cart line item.
// Quantity is only set for counter selections; zero means the implicit quantity of 1.
type OptionSelection struct {
	OptionID   string `json:"optionId"`
	OptionName string `json:"optionName"`
	ItemID     string `json:"itemId"`
	ItemName   string `json:"itemName"`
	ItemPrice  string `json:"itemPrice"`
	Quantity   int    `json:"quantity,omitempty"`
}

// EffectiveQuantity returns the quantity of this option item, defaulting to 1
func (o OptionSelection) EffectiveQuantity() int {
	if o.Quantity <= 0 {
		return 1
	}
	return o.Quantity
}

// CartLineItem represents one entry in the cart.
// Price is the per-line unit price as text: base product price plus priced options.
type CartLineItem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Price         string            `json:"price"`
	Image         string            `json:"image"`
	Quantity      int               `json:"quantity"`
	OriginalPrice string            `json:"originalPrice,omitempty"`
	Discount      string            `json:"discount,omitempty"`
	Options       []OptionSelection `json:"options,omitempty"`
	UniqueID      string            `json:"uniqueId"`
	CategoryID    string            `json:"categoryId,omitempty"`
	CategoryName  string            `json:"categoryName,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver
func (c CartLineItem) Clone() CartLineItem {
	out := c
	if c.Options != nil {
		out.Options = append([]OptionSelection(nil), c.Options...)
	}
	return out
}

// Notification represents the toast-style message shown after cart operations
type Notification struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

// CartSnapshot represents the consumer-facing view of a cart store
// Example response:
// {
//   "items": [
//     {
//       "id": "101",
//       "name": "Zinger Burger",
//       "price": "650.00",
//       "image": "https://cdn.example.com/zinger.png",
//       "quantity": 2,
//       "options": [
//         {"optionId": "9", "optionName": "Size", "itemId": "91", "itemName": "Large", "itemPrice": "150"}
//       ],
//       "uniqueId": "101_9:91"
//     }
//   ],
//   "totalItems": 2,
//   "subtotal": "1300.00",
//   "subtotalText": "PKR 1,300.00",
//   "currency": "PKR",
//   "isLoading": false,
//   "loadingItems": [],
//   "notification": {"message": "Item added to cart", "visible": true},
//   "hasOrderId": true
// }
type CartSnapshot struct {
	Items        []CartLineItem `json:"items"`
	TotalItems   int            `json:"totalItems"`
	Subtotal     string         `json:"subtotal"`
	SubtotalText string         `json:"subtotalText"`
	Currency     string         `json:"currency"`
	IsLoading    bool           `json:"isLoading"`
	LoadingItems []string       `json:"loadingItems"`
	Notification Notification   `json:"notification"`
	Error        string         `json:"error,omitempty"`
	HasOrderID   bool           `json:"hasOrderId"`
}

// AddToCartRequest represents the body of POST /cart/items
// Example: {"productId": "101", "selectedOptions": {"9": "91", "12": ["120"]}, "quantity": 1}
type AddToCartRequest struct {
	ProductID       string       `json:"productId" validate:"required"`
	SelectedOptions SelectionSet `json:"selectedOptions"`
	Quantity        int          `json:"quantity"`
}

// UpdateQuantityRequest represents the body of PATCH /cart/items/:uniqueId
// Example: {"quantity": 3}
// A quantity of 0 or less removes the line item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ItemQuantityRequest represents the body of POST /cart/quantity
// Example: {"productId": "101", "selectedOptions": {"9": "91"}}
type ItemQuantityRequest struct {
	ProductID       string       `json:"productId" validate:"required"`
	SelectedOptions SelectionSet `json:"selectedOptions"`
}

// ItemQuantityResponse represents the response of POST /cart/quantity
type ItemQuantityResponse struct {
	UniqueID  string `json:"uniqueId"`
	Quantity  int    `json:"quantity"`
	IsLoading bool   `json:"isLoading"`
}
