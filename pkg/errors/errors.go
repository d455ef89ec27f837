// Package errors provides structured error types for flametower.
//
// The flame-graph core never returns errors: degenerate trees have defined
// fallbacks. Everything around it (parsing input files, the catalog, caches,
// sinks, the HTTP API) reports failures through the coded [Error] type so the
// CLI can print a friendly message and the server can choose a status code.
//
// # Error Codes
//
// Codes follow a prefix convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: missing resources
//   - CACHE_*, RENDER_*: backend failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidWidth, "width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidWidth) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidTree, origErr, "decode %s", path)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidTree      Code = "INVALID_TREE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidWidth     Code = "INVALID_WIDTH"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidQuery     Code = "INVALID_QUERY"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"

	ErrCodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeFileNotReady Code = "FILE_NOT_READY"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"

	// Backend errors
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeRender  Code = "RENDER_ERROR"
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
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

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeNodeNotFound:
		return true
	}
	return false
}

// IsInvalid reports whether err is an input validation failure.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidTree, ErrCodeInvalidFormat,
		ErrCodeInvalidStyle, ErrCodeInvalidWidth, ErrCodeInvalidPath,
		ErrCodeInvalidQuery, ErrCodeInvalidDimension:
		return true
	}
	return false
}
