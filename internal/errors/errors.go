package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeExportFailed     = "EXPORT_FAILED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code       string   // Error code (e.g., "NOT_FOUND", "VALIDATION_FAILED")
	Message    string   // Human-readable error message
	Status     int      // HTTP status code
	Err        error    // Wrapped underlying error (optional)
	Violations []string // Ordered violation list, set for VALIDATION_FAILED
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewValidationFailedError creates a VALIDATION_FAILED error carrying the
// full ordered violation list. This is the only retry-worthy failure: the
// caller may re-run parse+validate once on the same input.
func NewValidationFailedError(violations []string) *AppError {
	return &AppError{
		Code:       ErrCodeValidationFailed,
		Message:    fmt.Sprintf("card validation failed with %d violation(s)", len(violations)),
		Status:     422,
		Violations: violations,
	}
}

// NewConfigurationError creates a CONFIGURATION_ERROR for invalid scheduling
// parameters. Never retried: identical bad parameters cannot succeed.
func NewConfigurationError(param string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf("invalid %s: %s", param, reason),
		Status:  400,
	}
}

// NewExportFailedError creates an EXPORT_FAILED error for filesystem-level
// artifact failures. Surfaced verbatim and never retried automatically.
func NewExportFailedError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeExportFailed,
		Message: fmt.Sprintf("failed to export artifact to %s", path),
		Status:  500,
		Err:     err,
	}
}

// IsRetryable reports whether err is a validation failure the caller may
// retry (once) with the same input.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeValidationFailed
	}
	return false
}
