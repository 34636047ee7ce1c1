package models

// HandoffVersion is the current version of the checkout handoff contract
const HandoffVersion = 1

// UserLocation represents the customer's coordinates as stored by the storefront
type UserLocation struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// CheckoutHandoff represents the data contract passed to the hosted checkout application
type CheckoutHandoff struct {
	Version      int          `json:"version"`
	CartID       string       `json:"cartId"`
	BusinessID   string       `json:"businessId"`
	OrderType    string       `json:"orderType"`
	BranchID     string       `json:"branchId"`
	Source       string       `json:"source"`
	UserLocation UserLocation `json:"userLocation"`
	WebsiteLink  string       `json:"websiteLink"`
}

// CheckoutHandoffResponse represents the response of GET /checkout/handoff
// Example response:
// {
//   "payload": {"version": 1, "cartId": "3f2a9c...", "businessId": "18", "orderType": "pickup", "branchId": "18", "source": "ordrz", ...},
//   "token": "eyJhbGciOiJIUzI1NiIs...",
//   "url": "https://checkout.ordrz.com/?branchId=18&businessId=18&cartId=3f2a9c...&handoff=eyJ..."
// }
type CheckoutHandoffResponse struct {
	Payload CheckoutHandoff `json:"payload"`
	Token   string          `json:"token"`
	URL     string          `json:"url"`
}
