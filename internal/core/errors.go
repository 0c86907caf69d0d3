// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Analytics errors. All are deterministic and non-retryable: the
	// same malformed input always produces the same error.
	ErrInvalidInput   = &Error{Code: "INVALID_INPUT", Message: "empty or malformed input series"}
	ErrDivisionByZero = &Error{Code: "DIVISION_BY_ZERO", Message: "zero value in input denominator"}
	ErrDuplicateParam = &Error{Code: "DUPLICATE_PARAMETER", Message: "duplicate parameter value in sweep"}
	ErrUnknownMetric  = &Error{Code: "UNKNOWN_METRIC", Message: "unknown metric name"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Archive errors
	ErrRunNotFound   = &Error{Code: "RUN_NOT_FOUND", Message: "archived run not found"}
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "run archive operation failed"}

	// Job errors
	ErrJobNotFound = &Error{Code: "JOB_NOT_FOUND", Message: "job not found"}

	// Auth errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Narrator errors
	ErrNarratorFailed = &Error{Code: "NARRATOR_FAILED", Message: "narrative generation failed"}
)
