package errors

import (
	"fmt"
	"maps"
)

// ErrorCode classifies an error for callers that need to branch on the
// failure kind (HTTP status mapping, CLI exit handling) without string
// matching on messages.
type ErrorCode string

const (
	ErrCodeInternal          ErrorCode = "INTERNAL"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnavailable       ErrorCode = "UNAVAILABLE"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"

	// ErrCodeMalformedInput marks a dataset or schema document that failed to
	// load or parse. Validation never starts when this is raised.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// ErrCodeUnsupportedPeriod marks an interval check requested with a
	// cadence keyword the checker does not implement. It aborts the run.
	ErrCodeUnsupportedPeriod ErrorCode = "UNSUPPORTED_PERIOD"
)

// StructuredError carries a machine-readable code and optional context
// alongside the human-readable message.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) error {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError wrapping an underlying cause.
func Wrap(code ErrorCode, message string, err error) error {
	return &StructuredError{Code: code, Message: message, Err: err}
}

// WrapWithContext creates a StructuredError with additional key/value context.
// The context map is copied so later mutation by the caller is not observed.
func WrapWithContext(code ErrorCode, message string, err error, context map[string]any) error {
	return &StructuredError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: maps.Clone(context),
	}
}

// CodeOf returns the code of err if it is (or wraps) a StructuredError,
// or ErrCodeInternal otherwise.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
