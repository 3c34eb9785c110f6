package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeIOFailure       ErrorType = "io_failure"
	ErrorTypeCancelled       ErrorType = "cancelled"
	ErrorTypeNotFound        ErrorType = "not_found"
)

// ErrCancelled is returned when the operator quits an interactive session.
var ErrCancelled = &AppError{Type: ErrorTypeCancelled, Message: "cancelled by operator"}

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type alone, so errors.Is(err, ErrCancelled) holds for any
// cancellation.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type
}

// InvalidArgument creates an error for bad geometry, parameters or colorspace.
func InvalidArgument(format string, args ...interface{}) *AppError {
	return &AppError{Type: ErrorTypeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// IOFailure wraps a decode, encode or persistence failure.
func IOFailure(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeIOFailure, Message: message, Cause: cause}
}

// NotFound creates an error for a missing asset or file.
func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Cancelled wraps the cause of a cancellation, usually a context error.
func Cancelled(cause error) *AppError {
	return &AppError{Type: ErrorTypeCancelled, Message: "cancelled by operator", Cause: cause}
}

// IsType checks if the error chain contains an AppError of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf extracts the ErrorType from an error, or "" when it is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
