// Package errors provides structured error types for the sitemap generation
// pipeline, distinguishing recoverable per-item failures from fatal
// whole-run failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// SitemapError is a structured error type with context.
type SitemapError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Path        string
	Recoverable bool
}

// Error implements the error interface.
func (e *SitemapError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SitemapError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *SitemapError) Is(target error) bool {
	var t *SitemapError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SitemapError) WithContext(key string, value interface{}) *SitemapError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *SitemapError) WithComponent(component string) *SitemapError {
	e.Component = component

	return e
}

// WithPath adds the file or URL path the error relates to.
func (e *SitemapError) WithPath(path string) *SitemapError {
	e.Path = path

	return e
}

// WithCause attaches an underlying cause.
func (e *SitemapError) WithCause(cause error) *SitemapError {
	e.Cause = cause

	return e
}

// NewValidationError creates a recoverable validation error.
func NewValidationError(code, message string) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSecurityError creates a non-recoverable security error. Path traversal
// in a computed filename is the canonical case.
func NewSecurityError(code, message string) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeSecurity,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates a non-recoverable I/O error.
func NewIOError(code, message string, cause error) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable reports whether err is a recoverable SitemapError.
// Unknown error types are treated as non-recoverable.
func IsRecoverable(err error) bool {
	var se *SitemapError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// IsType reports whether err is a SitemapError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var se *SitemapError
	if errors.As(err, &se) {
		return se.Type == errorType
	}

	return false
}

// InvalidDateError builds the fatal error raised when a user-supplied
// lastmod override cannot be parsed. The message format is part of the
// public contract and asserted by callers.
func InvalidDateError(value string) *SitemapError {
	return &SitemapError{
		Type:        ErrorTypeValidation,
		Code:        "invalid_date",
		Message:     fmt.Sprintf("Invalid date provided: %s", value),
		Recoverable: false,
	}
}

// PathTraversalError builds the fatal error raised when a computed filename
// would escape the output directory.
func PathTraversalError(filename string) *SitemapError {
	return NewSecurityError("path_traversal",
		fmt.Sprintf("unsafe filename %q escapes output directory", filename))
}
