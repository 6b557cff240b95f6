// Package errors provides structured error types for boxflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures and misuse of the engine API
//   - NOT_FOUND / *_NOT_FOUND: Resource not found
//   - *_EXCEEDED, *_OUT_OF_RANGE: Storage limits
//   - INTERNAL_*: Unexpected internal errors
//
// # Fatal Errors
//
// The layout engine treats contract violations (inserting the root,
// iterating a modified tree, exhausting arena capacity) as programming
// errors and panics with an *Error via [Fatal]. Tooling boundaries such as
// the pipeline and the HTTP server convert those panics back into errors
// with [Recover].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFixture, "box %q has no tag", name)
//	if errors.Is(err, errors.ErrCodeInvalidFixture) {
//	    // Handle validation error
//	}
//
//	func run() (err error) {
//	    defer errors.Recover(&err)
//	    engine.Update()
//	    return nil
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine contract violations
	ErrCodeInvalidOperation       Code = "INVALID_OPERATION"
	ErrCodeNotImplemented         Code = "NOT_IMPLEMENTED"
	ErrCodeCapacityExceeded       Code = "CAPACITY_EXCEEDED"
	ErrCodeIndexOutOfRange        Code = "INDEX_OUT_OF_RANGE"
	ErrCodeConcurrentModification Code = "CONCURRENT_MODIFICATION"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFlags   Code = "INVALID_FLAGS"
	ErrCodeInvalidFixture Code = "INVALID_FIXTURE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFixtureNotFound Code = "FIXTURE_NOT_FOUND"

	// Regression checks
	ErrCodeBaselineMismatch Code = "BASELINE_MISMATCH"

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

// Fatal panics with a new *Error. It never returns.
func Fatal(code Code, format string, args ...any) {
	panic(New(code, format, args...))
}

// Recover converts a panic carrying an *Error into a returned error.
// It must be deferred directly. Panics with any other value are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(*Error)
	if !ok {
		panic(r)
	}
	if errp != nil {
		*errp = e
	}
}

// coder is implemented by error types that carry a code without being an *Error.
type coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or another coded error.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds no coded error.
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

// MismatchError describes a snapshot that differs from its stored baseline.
type MismatchError struct {
	Fixture     string
	Differences int
	// Details holds one line per difference.
	Details []string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	if e.Differences == 1 {
		return fmt.Sprintf("fixture %q differs from baseline in 1 box", e.Fixture)
	}
	return fmt.Sprintf("fixture %q differs from baseline in %d boxes", e.Fixture, e.Differences)
}

// Code returns the error code for this error type.
func (e *MismatchError) Code() Code {
	return ErrCodeBaselineMismatch
}
