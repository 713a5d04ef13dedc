// Package errors provides a lightweight structured error type (SpaforgeError)
// for category-based classification in the CLI and dev-server adapters.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a spaforge error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Resolution and injection errors
	CategoryImportMap ErrorCategory = "importmap"
	CategoryTransform ErrorCategory = "transform"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryServer     ErrorCategory = "server"
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

// SpaforgeError is a structured error with category, severity, and context
type SpaforgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SpaforgeError
type ContextFields map[string]any

// Error implements the error interface
func (e *SpaforgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SpaforgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SpaforgeError) WithContext(key string, value any) *SpaforgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the error severity
func (e *SpaforgeError) WithSeverity(severity ErrorSeverity) *SpaforgeError {
	e.Severity = severity
	return e
}

// New creates a new SpaforgeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SpaforgeError {
	return &SpaforgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SpaforgeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SpaforgeError {
	return &SpaforgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory reports whether any SpaforgeError in err's chain has the given
// category. Wrapped errors keep their classification: a transform failure
// caused by an import map read matches both categories.
func IsCategory(err error, category ErrorCategory) bool {
	var se *SpaforgeError
	for stderrors.As(err, &se) {
		if se.Category == category {
			return true
		}
		err = se.Unwrap()
	}
	return false
}
