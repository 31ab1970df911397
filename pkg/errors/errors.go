// Package errors provides structured error types for the Scrawl rendering
// pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - LOAD_*/DECODE_*: Asset acquisition failures
//   - RENDER_*: Rendering failures and interruptions
//   - CAPACITY_*: Resource budget exhaustion
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTemplate, "unknown template: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidTemplate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoadFailed, origErr, "failed to fetch %s", ref)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidInk      Code = "INVALID_INK"
	ErrCodeInvalidFont     Code = "INVALID_FONT"
	ErrCodeInvalidQuality  Code = "INVALID_QUALITY"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Asset acquisition errors
	ErrCodeLoadFailed       Code = "LOAD_FAILED"
	ErrCodeDecodeFailed     Code = "DECODE_FAILED"
	ErrCodeProcessingFailed Code = "PROCESSING_FAILED"
	ErrCodeNetwork          Code = "NETWORK_ERROR"
	ErrCodeTimeout          Code = "TIMEOUT"

	// Rendering errors
	ErrCodeRenderFailed     Code = "RENDER_FAILED"
	ErrCodeRenderAborted    Code = "RENDER_ABORTED"
	ErrCodeRenderSuperseded Code = "RENDER_SUPERSEDED"

	// Resource budget errors
	ErrCodeCapacity Code = "CAPACITY_EXHAUSTED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by typed errors that carry their own code,
// such as CapacityError.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInterruption reports whether err only signals that a render was
// abandoned (aborted by the caller or superseded by a newer request)
// rather than a real failure.
func IsInterruption(err error) bool {
	return Is(err, ErrCodeRenderAborted) || Is(err, ErrCodeRenderSuperseded)
}

// CapacityError provides additional information for resource exhaustion.
// ReclaimableBytes hints how much the caller could free by evicting
// idle cached resources before retrying.
type CapacityError struct {
	Resource         string // "canvas", "texture", "memory"
	RequestedBytes   int64
	ReclaimableBytes int64
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	if e.RequestedBytes > 0 {
		return fmt.Sprintf("%s capacity exhausted: %d bytes requested", e.Resource, e.RequestedBytes)
	}
	return fmt.Sprintf("%s capacity exhausted", e.Resource)
}

// Code returns the error code for this error type.
func (e *CapacityError) Code() Code {
	return ErrCodeCapacity
}
