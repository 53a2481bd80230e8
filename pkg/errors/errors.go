package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrNotImplemented indicates a capability that is not implemented
	ErrNotImplemented = errors.New("not implemented")
)

// Security and analysis pipeline errors

var (
	// ErrSuspiciousContent indicates a prompt-injection pattern match,
	// either in user-supplied document text or in model output
	ErrSuspiciousContent = errors.New("suspicious content detected")

	// ErrModelFailure indicates the external model call or response parsing failed
	ErrModelFailure = errors.New("model request failed")

	// ErrValidation indicates model output violated the result schema or list caps
	ErrValidation = errors.New("result validation failed")

	// ErrRateLimitExceeded indicates API rate limit exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Document handling errors

var (
	// ErrUnsupportedFormat indicates an unsupported document format
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction indicates text extraction from a document failed
	ErrExtraction = errors.New("text extraction failed")

	// ErrFileTooLarge indicates an uploaded file exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrRecordStore indicates a record store operation failed
	ErrRecordStore = errors.New("record store operation failed")
)

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap makes every ValidationError match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
