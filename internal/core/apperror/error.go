// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by concern
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"
	CodeInvalidFieldType  = "INVALID_FIELD_TYPE"
	CodeTypeCoercion      = "TYPE_COERCION_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"

	// Data integrity (500, logged and alerted)
	CodeIntegrity = "INTEGRITY_ERROR"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field references, conflicting keys, etc.)
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

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidIdentifier creates an error for field names that fail the
// safe-identifier check. The offending name is reported back in details only,
// never interpolated into queries.
func NewInvalidIdentifier(name string) *AppError {
	return &AppError{
		Code:       CodeInvalidIdentifier,
		Message:    "field name contains characters outside the allowed identifier set",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field_name": name},
	}
}

// NewInvalidFieldType creates an error for field types outside the closed enum.
func NewInvalidFieldType(fieldType string) *AppError {
	return &AppError{
		Code:       CodeInvalidFieldType,
		Message:    "unknown field type",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field_type": fieldType},
	}
}

// NewTypeCoercion creates an error for values that cannot be coerced to the
// field's declared type.
func NewTypeCoercion(fieldName, fieldType string, value any) *AppError {
	return &AppError{
		Code:       CodeTypeCoercion,
		Message:    fmt.Sprintf("value cannot be coerced to %s", fieldType),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": fieldName, "field_type": fieldType, "value": fmt.Sprint(value)},
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

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewIntegrity creates a data-integrity error (orphaned value cells, partially
// applied writes). Always logged with full context before surfacing.
func NewIntegrity(message string) *AppError {
	return &AppError{
		Code:       CodeIntegrity,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
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

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
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

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsConflict checks if error is CodeConflict or CodeDuplicate
func IsConflict(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeConflict || appErr.Code == CodeDuplicate
	}
	return false
}

// IsTypeCoercion checks if error is CodeTypeCoercion
func IsTypeCoercion(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeTypeCoercion
	}
	return false
}
