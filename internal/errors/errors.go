// Package errors provides unified error handling for promptforge.
//
// SYSTEM ARCHITECTURE ROLE:
// This module standardizes error representation across the surfaces that can
// actually fail: configuration loading, the persistence media, the HTTP API
// and the external image-description call. The store and the composer never
// return errors by contract; their failure modes (unknown ids, blank input,
// unrecognized option keys) are defined as no-ops or defaults and never
// reach this package.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent handling
// - Provide a structured error type (AppError) with severity and context
// - Enable interface-specific formatting (CLI text, HTTP JSON) on top of
//   consistent core error data
//
// USAGE PATTERNS:
// - Create errors with the constructor functions (ValidationError,
//   NotFoundError, NetworkError, StorageError)
// - Wrap underlying causes with Wrap to add context
// - Use IsAppError/GetAppError for type-safe inspection at the surfaces
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	// Network errors
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeTimeout        ErrorCode = "TIMEOUT"

	// Internal errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryResource   ErrorCategory = "resource"
	CategoryStorage    ErrorCategory = "storage"
	CategoryNetwork    ErrorCategory = "network"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Severity  ErrorSeverity `json:"severity"`
	Category  ErrorCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Cause     error         `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(code ErrorCode, category ErrorCategory, severity ErrorSeverity, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// ValidationError creates a validation failure for user-supplied input
func ValidationError(message string) *AppError {
	return newAppError(ErrCodeValidation, CategoryValidation, SeverityWarning, message)
}

// MissingFieldError creates a validation failure for an absent required field
func MissingFieldError(field string) *AppError {
	err := newAppError(ErrCodeMissingField, CategoryValidation, SeverityWarning, "missing required field")
	err.Details = field
	return err
}

// NotFoundError creates a resource lookup failure
func NotFoundError(resource, id string) *AppError {
	err := newAppError(ErrCodeNotFound, CategoryResource, SeverityWarning, fmt.Sprintf("%s not found", resource))
	err.Details = id
	return err
}

// StorageError creates a persistence failure wrapping its cause
func StorageError(message string, cause error) *AppError {
	err := newAppError(ErrCodeStorageFailure, CategoryStorage, SeverityError, message)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NetworkError creates a failure for an external service call
func NetworkError(message string, cause error) *AppError {
	err := newAppError(ErrCodeNetworkFailure, CategoryNetwork, SeverityError, message)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// InternalError creates an unexpected internal failure
func InternalError(message string, cause error) *AppError {
	err := newAppError(ErrCodeInternalError, CategorySystem, SeverityCritical, message)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// Wrap adds context to an existing error, preserving AppError metadata when
// present
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if app, ok := err.(*AppError); ok {
		return &AppError{
			Code:      app.Code,
			Message:   fmt.Sprintf("%s: %s", message, app.Message),
			Details:   app.Details,
			Severity:  app.Severity,
			Category:  app.Category,
			Timestamp: app.Timestamp,
			Cause:     app,
		}
	}
	wrapped := InternalError(message, err)
	wrapped.Severity = SeverityError
	return wrapped
}

// IsAppError reports whether err is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from err, converting plain errors to
// internal errors
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if app, ok := err.(*AppError); ok {
		return app
	}
	return InternalError(err.Error(), err)
}
