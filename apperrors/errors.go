// Package apperrors provides typed errors that carry an HTTP status and
// user-facing context.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// TypeValidation indicates invalid input, including malformed CSV uploads (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates an unknown run (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInternal indicates a server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates a failing dependency such as the browser or database (HTTP 502)
	TypeExternal ErrorType = "external"
)

// Error is a structured error with type, message and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Context: make(map[string]any)}
}

// ValidationError creates a validation error (HTTP 400).
func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

// ValidationErrorf creates a validation error that keeps its cause.
func ValidationErrorf(cause error, format string, args ...any) *Error {
	return newError(TypeValidation, fmt.Sprintf(format, args...), cause)
}

// NotFoundError creates a not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// InternalError creates an internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

// ExternalError creates an external dependency error (HTTP 502).
func ExternalError(message string, cause error) *Error {
	return newError(TypeExternal, message, cause)
}

// WithField adds a context field (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON body sent to API clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to its JSON representation.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// AsStructuredError converts any error into an *Error. Errors that are not
// already structured become internal errors.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}
	return InternalError("internal server error", err)
}

// IsType reports whether err is a structured error of type t.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	return errors.As(err, &structuredErr) && structuredErr.Type == t
}
