// Package errors provides coded domain errors for the matching service.
//
// Usage:
//
//	// In the cache layer - return typed errors
//	if err := json.Unmarshal(data, &snap); err != nil {
//	    return errors.CorruptData("manga cache blob").WithCause(err)
//	}
//
//	// At the boundary - check with errors.Is
//	if errors.Is(err, errors.ErrCorruptData) {
//	    logger.Warn("ignoring unreadable cache", "error", err)
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    os.Exit(domainErr.Code.ExitCode())
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeInternal         Code = "INTERNAL"
	CodeCorruptData      Code = "CORRUPT_DATA"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeSourceFailed     Code = "SOURCE_FAILED"
)

// Process exit codes used by the command-line hosts.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode returns the process exit code for an error code.
func (c Code) ExitCode() int {
	switch c {
	case CodeValidation:
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	return e.Code.ExitCode()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal         = &Error{Code: CodeInternal, Message: "internal error"}
	ErrCorruptData      = &Error{Code: CodeCorruptData, Message: "corrupt data"}
	ErrStoreUnavailable = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrSourceFailed     = &Error{Code: CodeSourceFailed, Message: "candidate source failed"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// CorruptData creates an error for unreadable persisted data.
func CorruptData(msg string) *Error {
	return &Error{Code: CodeCorruptData, Message: msg}
}

// StoreUnavailable creates an error for a failed store read or write.
func StoreUnavailable(msg string) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: msg}
}

// SourceFailed creates an error for a failed candidate search.
func SourceFailed(msg string) *Error {
	return &Error{Code: CodeSourceFailed, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
