// Package errors provides a lightweight structured error type (CertDistError)
// for category-based classification in HTTP adapters and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a CertDist error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// Domain errors
	CategoryRoster  ErrorCategory = "roster"
	CategoryRender  ErrorCategory = "render"
	CategoryPublish ErrorCategory = "publish"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryEvents     ErrorCategory = "events"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// CertDistError is a structured error with category, severity, and context
type CertDistError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for CertDistError
type ContextFields map[string]any

// Error implements the error interface
func (e *CertDistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *CertDistError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *CertDistError) WithContext(key string, value any) *CertDistError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new CertDistError
func New(category ErrorCategory, severity ErrorSeverity, message string) *CertDistError {
	return &CertDistError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new CertDistError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *CertDistError {
	return &CertDistError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if cde, ok := err.(*CertDistError); ok {
		return cde.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a CertDistError
func GetCategory(err error) ErrorCategory {
	if cde, ok := err.(*CertDistError); ok {
		return cde.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error (400 Bad Request)
func ValidationError(message string) *CertDistError {
	return &CertDistError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// NotFoundError creates a new not-found error (404)
func NotFoundError(message string) *CertDistError {
	return &CertDistError{
		Category: CategoryNotFound,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// WrapError wraps an existing error with a new CertDistError
func WrapError(err error, category ErrorCategory, message string) *CertDistError {
	return &CertDistError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}
