// Package errors provides the structured error type shared by the forecasting
// engine, the services and the HTTP layer. Every validation or lookup failure is an
// AppError so handlers can render a stable code without leaking internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches two AppErrors by code, so a WithMessage copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the sentinel's code, message and status wrapping an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidToken = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}

	ErrInvalidServiceKey       = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrServiceKeyNotConfigured = &AppError{Code: "SERVICE_KEY_NOT_CONFIGURED", Message: "Service endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Forecast input errors. All are raised before any computation starts.
var (
	ErrInvalidHoldingPeriod    = &AppError{Code: "INVALID_HOLDING_PERIOD", Message: "Holding period must be at least one year", StatusCode: http.StatusBadRequest}
	ErrInvalidProperty         = &AppError{Code: "INVALID_PROPERTY", Message: "Property data is invalid", StatusCode: http.StatusBadRequest}
	ErrInvalidMortgage         = &AppError{Code: "INVALID_MORTGAGE", Message: "Mortgage data is invalid", StatusCode: http.StatusBadRequest}
	ErrTermExceedsAmortization = &AppError{Code: "TERM_EXCEEDS_AMORTIZATION", Message: "Mortgage term cannot exceed the amortization period", StatusCode: http.StatusBadRequest}
	ErrInvalidAssumptions      = &AppError{Code: "INVALID_ASSUMPTIONS", Message: "Assumption set is invalid", StatusCode: http.StatusBadRequest}
)

// Scenario errors.
var (
	ErrScenarioNotFound  = &AppError{Code: "SCENARIO_NOT_FOUND", Message: "Scenario not found", StatusCode: http.StatusNotFound}
	ErrDuplicateScenario = &AppError{Code: "DUPLICATE_SCENARIO", Message: "Scenario names must be unique within a comparison", StatusCode: http.StatusBadRequest}
	ErrBaselineNotPinned = &AppError{Code: "BASELINE_NOT_PINNED", Message: "No baseline scenario is pinned for this property", StatusCode: http.StatusNotFound}
)
