package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeInternal      = "internal_error"
	CodeRateLimited   = "rate_limit_exceeded"
)

// ErrInternal is what untyped errors resolve to before reaching a client.
var ErrInternal = NewInternalError("internal server error", nil)

// AppError is implemented by every error type in this package.
type AppError interface {
	error
	Code() string
	HTTPStatus() int
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Code() string    { return CodeNotFound }
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e *AlreadyExistsError) Code() string    { return CodeAlreadyExists }
func (e *AlreadyExistsError) HTTPStatus() int { return http.StatusConflict }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Code() string    { return CodeInternal }
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }

// RateLimitError is returned when a client exhausted its request budget.
type RateLimitError struct {
	Scope string
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(scope string) *RateLimitError {
	return &RateLimitError{Scope: scope}
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Scope)
}

func (e *RateLimitError) Code() string    { return CodeRateLimited }
func (e *RateLimitError) HTTPStatus() int { return http.StatusTooManyRequests }

// As reports whether err carries an AppError, returning it.
// Anything else, including wrapped internal causes, resolves to ErrInternal.
func As(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return ErrInternal, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAlreadyExists reports whether err is an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}
