package cart

import (
	"fmt"
	"strings"
)

// Error codes surfaced to callers
const (
	CodeBranchSelectionRequired = "BRANCH_SELECTION_REQUIRED"
	CodeRemoteRejected          = "REMOTE_REJECTED"
	CodeTransportFailure        = "TRANSPORT_FAILURE"
	CodeItemNotFound            = "ITEM_NOT_FOUND"
	CodeNoOrderID               = "NO_ORDER_ID"
)

// Error is a cart failure carrying a machine-readable code
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	message := e.Summary()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", message, e.Err)
	}
	return message
}

// Summary is the message without the wrapped cause, safe to show to a client
func (e *Error) Summary() string {
	if e.Message == "" {
		return strings.ToLower(strings.ReplaceAll(e.Code, "_", " "))
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	// ErrBranchSelectionRequired is returned by AddItem when no order context exists.
	// Callers should prompt for a branch and order type, then retry the same call.
	ErrBranchSelectionRequired = &Error{Code: CodeBranchSelectionRequired, Message: "branch selection required"}
	// ErrItemNotFound is returned when a referenced line item is not in the cart
	ErrItemNotFound = &Error{Code: CodeItemNotFound, Message: "item not found"}
	// ErrNoOrderID is returned when a cart-wide remote call has no durable order id
	ErrNoOrderID = &Error{Code: CodeNoOrderID, Message: "no unique order id found, cannot clear cart"}
)

// NewRemoteRejected builds the error for a non-200 application status.
// message is the server's message and may be empty.
func NewRemoteRejected(message string) *Error {
	return &Error{Code: CodeRemoteRejected, Message: message}
}

// NewTransportFailure builds the error for a network or decoding failure
func NewTransportFailure(message string, err error) *Error {
	return &Error{Code: CodeTransportFailure, Message: message, Err: err}
}
