// Package errors provides structured error types for nodetrees.
//
// This package defines error codes and types that enable:
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages in the CLI
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: A named target or document does not exist
//   - *_WRITE: Filesystem failures while persisting output
//   - INTERNAL_*: Unexpected internal errors
//
// Per-node idiosyncrasies (unknown socket types, unresolvable reroutes,
// conflicting vector spaces) are never errors; the serializer logs them and
// keeps going. Only failures that make a whole document meaningless are
// reported through this package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCyclicGroup, "group %q references itself", name)
//	if errors.Is(err, errors.ErrCodeCyclicGroup) {
//	    // Handle the broken library
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDocumentWrite, origErr, "write %s", path)
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
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Graph structure errors
	ErrCodeCyclicGroup Code = "CYCLIC_GROUP"

	// Output errors
	ErrCodeAssetWrite    Code = "ASSET_WRITE"
	ErrCodeDocumentWrite Code = "DOCUMENT_WRITE"
	ErrCodeHashMismatch  Code = "HASH_MISMATCH"

	// Cache errors
	ErrCodeCache Code = "CACHE_ERROR"

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

// As is errors.As from the standard library, re-exported so callers need a
// single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// HashMismatchError describes a document whose embedded hash does not match
// its content.
type HashMismatchError struct {
	Path     string
	Embedded string
	Computed string
}

// Error implements the error interface.
func (e *HashMismatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: hash mismatch: embedded %s, computed %s", e.Path, e.Embedded, e.Computed)
	}
	return fmt.Sprintf("hash mismatch: embedded %s, computed %s", e.Embedded, e.Computed)
}

// Code returns the error code for this error type.
func (e *HashMismatchError) Code() Code {
	return ErrCodeHashMismatch
}
