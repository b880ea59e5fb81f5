// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every error surfaced by the query builder or the list API must be an AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Raised while declaring filter schemas or resources, never per request.
	CodeSchema = "SCHEMA_ERROR"

	// Validation errors (400)
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidPage        = "INVALID_PAGE"
	CodeUnknownOrderField  = "UNKNOWN_ORDER_FIELD"
	CodeUnknownSelectField = "UNKNOWN_SELECT_FIELD"
	CodeUnsafeValue        = "UNSAFE_VALUE"
	CodeInvalidFilterValue = "INVALID_FILTER_VALUE"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type of the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field, operator, offending value...)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewSchema reports an invalid filter schema or resource declaration.
// These surface at startup, so the status only matters if one leaks into a request.
func NewSchema(message string) *AppError {
	return &AppError{
		Code:       CodeSchema,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInvalidPage creates an error for non-positive page or size (400)
func NewInvalidPage(page, size int) *AppError {
	return &AppError{
		Code:       CodeInvalidPage,
		Message:    "page and size must be positive integers",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"page": page, "size": size},
	}
}

// NewUnknownOrderField creates an error for an order token outside the allow-list (400)
func NewUnknownOrderField(token string) *AppError {
	return &AppError{
		Code:       CodeUnknownOrderField,
		Message:    "unknown order field",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"order_by": token},
	}
}

// NewUnknownSelectField creates an error for a selected field outside the allow-list (400)
func NewUnknownSelectField(field string) *AppError {
	return &AppError{
		Code:       CodeUnknownSelectField,
		Message:    "unknown field",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// NewUnsafeValue creates an error for a value that cannot be inlined into SQL text (400)
func NewUnsafeValue(field string, value any) *AppError {
	return &AppError{
		Code:       CodeUnsafeValue,
		Message:    "filter value contains characters that cannot be inlined",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "value": value},
	}
}

// NewInvalidFilterValue creates an error for a value of the wrong type (400)
func NewInvalidFilterValue(field, operator string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidFilterValue,
		Message:    "invalid filter value",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "operator": operator, "value": value},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDatabase wraps a failure reported by a query executor.
func NewDatabase(err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "database query failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
