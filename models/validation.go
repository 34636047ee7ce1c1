package models

// ValidationStatus is the display status of an option group
type ValidationStatus string

const (
	StatusError   ValidationStatus = "error"
	StatusSuccess ValidationStatus = "success"
	StatusWarning ValidationStatus = "warning"
	StatusInfo    ValidationStatus = "info"
)

// ValidationEntry represents the validation state of one option group.
// Interacted gates when errors are surfaced to the user.
type ValidationEntry struct {
	IsValid    bool             `json:"isValid"`
	Message    string           `json:"message"`
	Status     ValidationStatus `json:"status"`
	Interacted bool             `json:"interacted"`
}

// OptionsValidationRequest represents the body of POST /products/:id/options/validate
// Example: {"selectedOptions": {"9": "91", "12": ["120", "121"], "15": {"150": 2}}, "activeOptionId": "9", "submit": false}
type OptionsValidationRequest struct {
	SelectedOptions SelectionSet `json:"selectedOptions"`
	ActiveOptionID  string       `json:"activeOptionId,omitempty"`
	Quantity        int          `json:"quantity,omitempty"`
	Submit          bool         `json:"submit"`
}

// OptionsValidationResponse represents the state of a product-options session
type OptionsValidationResponse struct {
	Validation      map[string]ValidationEntry `json:"validation"`
	FormValid       bool                       `json:"formValid"`
	FirstInvalid    string                     `json:"firstInvalid,omitempty"`
	ActiveOptionID  string                     `json:"activeOptionId,omitempty"`
	ExpandedOptions map[string]bool            `json:"expandedOptions"`
	ScrollTarget    string                     `json:"scrollTarget,omitempty"`
	TotalPrice      string                     `json:"totalPrice"`
	SelectedOptions SelectionSet               `json:"selectedOptions,omitempty"`
}
