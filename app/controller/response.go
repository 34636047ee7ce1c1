package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ordrz-storefront/app/session"
	"ordrz-storefront/cart"
	"ordrz-storefront/options"
	"ordrz-storefront/service"
)

// Error codes that do not come from the cart package
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidSelection = "INVALID_SELECTION"
	CodeProductNotFound  = "PRODUCT_NOT_FOUND"
	CodeNoCart           = "NO_CART"
	CodeForbidden        = "FORBIDDEN"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
	CodeInternal         = "INTERNAL"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNoSession        = "NO_SESSION"
)

// ErrorResponse represents every error body
// Example: {"error": {"code": "BRANCH_SELECTION_REQUIRED", "message": "branch selection required"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure; GroupID is set for option selection failures
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	GroupID string `json:"groupId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
}

// decodeJSON reads the body into v and validates its tags
func decodeJSON(r *http.Request, validate *validator.Validate, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// sessionID returns the request's session id, answering 500 when the middleware is missing
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, CodeNoSession, "session is not available")
	}
	return id, ok
}

// writeDomainError maps cart, option and service errors to HTTP
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, operation string, err error) {
	detail := ErrorDetail{Code: CodeInternal, Message: "Internal server error"}
	status := http.StatusInternalServerError

	var cartErr *cart.Error
	var invalid *options.InvalidSelectionError
	switch {
	case errors.As(err, &cartErr):
		detail.Code = cartErr.Code
		detail.Message = cartErr.Summary()
		switch cartErr.Code {
		case cart.CodeBranchSelectionRequired, cart.CodeNoOrderID:
			status = http.StatusConflict
		case cart.CodeItemNotFound:
			status = http.StatusNotFound
		default:
			status = http.StatusBadGateway
		}
	case errors.As(err, &invalid):
		status = http.StatusUnprocessableEntity
		detail = ErrorDetail{Code: CodeInvalidSelection, Message: invalid.Message, GroupID: invalid.GroupID}
	case errors.Is(err, options.ErrUnknownGroup), errors.Is(err, options.ErrUnknownItem),
		errors.Is(err, options.ErrTypeMismatch), errors.Is(err, options.ErrSelectionLimit),
		errors.Is(err, options.ErrBelowMinimum):
		status = http.StatusUnprocessableEntity
		detail = ErrorDetail{Code: CodeInvalidSelection, Message: err.Error()}
	case errors.Is(err, service.ErrProductNotFound):
		status = http.StatusNotFound
		detail = ErrorDetail{Code: CodeProductNotFound, Message: err.Error()}
	case errors.Is(err, service.ErrNoCart):
		status = http.StatusConflict
		detail = ErrorDetail{Code: CodeNoCart, Message: err.Error()}
	case errors.Is(err, service.ErrImageHostNotAllowed):
		status = http.StatusForbidden
		detail = ErrorDetail{Code: CodeForbidden, Message: err.Error()}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("❌ "+operation+": failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("⚠️ "+operation+": rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}
