// Package errors provides structured error types for the gallery pipeline,
// categorizing failures by stage so callers can distinguish per-asset
// recoverable errors from pipeline-fatal ones.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeRender   ErrorType = "render"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeCatalog  ErrorType = "catalog"
	ErrorTypePublish  ErrorType = "publish"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// PipelineError is a structured error type with context.
type PipelineError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Asset       string
	Recoverable bool
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Asset != "" {
		parts = append(parts, "asset:"+e.Asset)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *PipelineError) Is(target error) bool {
	var t *PipelineError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithAsset adds asset context to the error.
func (e *PipelineError) WithAsset(asset string) *PipelineError {
	e.Asset = asset

	return e
}

// NewRenderError creates a per-asset render error. Render errors are
// recoverable: they fail one asset, never the batch.
func NewRenderError(code, message string) *PipelineError {
	return &PipelineError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates a filesystem error.
func NewIOError(code, message string) *PipelineError {
	return &PipelineError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewPublishError creates a publish error. Publish failures are terminal for
// the pipeline's reported outcome.
func NewPublishError(code, message string) *PipelineError {
	return &PipelineError{
		Type:        ErrorTypePublish,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *PipelineError {
	return &PipelineError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// Wrap wraps an existing error with pipeline context.
func Wrap(err error, errorType ErrorType, code, message string) *PipelineError {
	recoverable := errorType == ErrorTypeRender || errorType == ErrorTypeIO

	return &PipelineError{
		Type:        errorType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: recoverable,
	}
}

// IsRecoverable reports whether an error is recoverable at the batch level.
// Unknown error types default to non-recoverable.
func IsRecoverable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Recoverable
	}

	return false
}
