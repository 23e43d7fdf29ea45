// Package apperror defines the error kinds the API distinguishes and how each
// one maps to an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of an application error.
type ErrorType int

const (
	// InternalError is any failure the caller cannot fix.
	InternalError ErrorType = iota
	// ValidationError is a missing or empty required field.
	ValidationError
	// NotFoundError is a referenced record that does not exist.
	NotFoundError
	// ConflictError is a request that would not change state, e.g. a repeated follow.
	ConflictError
)

// AppError carries a user-facing message, a diagnostic detail string and the
// underlying error, if any.
type AppError struct {
	Type    ErrorType
	Message string
	Details string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		// Existing clients expect a repeated follow to fail as a server error.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DetailText returns Details, falling back to the wrapped error text.
func (e *AppError) DetailText() string {
	if e.Details != "" {
		return e.Details
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func newAppError(t ErrorType, message, details string, err error) *AppError {
	return &AppError{Type: t, Message: message, Details: details, Err: err}
}

// NewValidationError creates a ValidationError.
func NewValidationError(message, details string) *AppError {
	return newAppError(ValidationError, message, details, nil)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message, details string) *AppError {
	return newAppError(NotFoundError, message, details, nil)
}

// NewConflictError creates a ConflictError.
func NewConflictError(message, details string) *AppError {
	return newAppError(ConflictError, message, details, nil)
}

// FromError returns the first *AppError in err's chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	appErr, ok := FromError(err)
	return ok && appErr.Type == t
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool { return isType(err, ValidationError) }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return isType(err, NotFoundError) }

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool { return isType(err, ConflictError) }
