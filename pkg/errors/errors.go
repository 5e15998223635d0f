// Package errors provides structured error types for agendagraph.
//
// Parsing and diagram generation never fail; every error in the program comes
// from its boundary: reading input, validating options, and running an
// external renderer. This package gives those failures machine-readable codes
// so the CLI can choose exit statuses and the HTTP server can choose response
// codes.
//
// # Error Codes
//
//   - INPUT_UNREADABLE: the agenda text could not be read
//   - RENDERER_NOT_FOUND: no external rendering program is installed
//   - RENDERER_FAILED: the renderer ran and exited non-zero (see [ExitError])
//   - INVALID_*: option validation failures
//   - OUTPUT_REQUIRED: an image format was requested without an output file
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInputUnreadable, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Boundary I/O errors
	ErrCodeInputUnreadable Code = "INPUT_UNREADABLE"
	ErrCodeOutputRequired  Code = "OUTPUT_REQUIRED"
	ErrCodeOutputFailed    Code = "OUTPUT_FAILED"

	// External renderer errors
	ErrCodeRendererNotFound Code = "RENDERER_NOT_FOUND"
	ErrCodeRendererFailed   Code = "RENDERER_FAILED"

	// Option validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidEngine      Code = "INVALID_ENGINE"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coded is satisfied by error types that report a Code without being *Error.
type coded interface{ Code() Code }

// GetCode returns the first code found in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Is reports whether err's chain carries code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage strips the code prefix and cause from *Error values so the
// CLI can print a single readable line. Other errors print as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitError reports an external renderer that exited with a non-zero status.
// ExitCode is the program's own status and is passed through unchanged.
type ExitError struct {
	Program  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Program, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Program, e.ExitCode)
}

// Code returns the error code for this error type.
func (e *ExitError) Code() Code {
	return ErrCodeRendererFailed
}

// ExitCode returns the exit status carried by err, if it wraps an [ExitError].
func ExitCode(err error) (int, bool) {
	var e *ExitError
	if errors.As(err, &e) {
		return e.ExitCode, true
	}
	return 0, false
}
