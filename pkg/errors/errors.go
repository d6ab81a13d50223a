// Package errors provides structured error types for ratiochase.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the deduction core and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (statements, problems, formats)
//   - DEGENERATE_*: Inputs a predicate cannot represent
//   - UNKNOWN_*: References to things that do not exist
//   - CONTRADICTION: Inconsistent facts in the closure table
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStatement, "expected 8 points, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidStatement) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidProblem, origErr, "goal %d", i)
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
	ErrCodeInvalidStatement Code = "INVALID_STATEMENT"
	ErrCodeInvalidPoint     Code = "INVALID_POINT"
	ErrCodeInvalidValue     Code = "INVALID_VALUE"
	ErrCodeInvalidProblem   Code = "INVALID_PROBLEM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Statements a predicate cannot express
	ErrCodeDegenerate Code = "DEGENERATE_STATEMENT"

	// Unknown references
	ErrCodeUnknownPredicate Code = "UNKNOWN_PREDICATE"
	ErrCodeUnknownFact      Code = "UNKNOWN_FACT"
	ErrCodeUnknownPoint     Code = "UNKNOWN_POINT"

	// Logical errors
	ErrCodeContradiction Code = "CONTRADICTION"

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
// Types outside this package can take part by implementing ErrorCode.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// coded is implemented by error types of other packages that carry a Code
// without being an *Error (for example chase.Contradiction).
type coded interface {
	ErrorCode() Code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
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
