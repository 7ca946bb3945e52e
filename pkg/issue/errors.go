package issue

import (
	"errors"
	"fmt"
)

// Error codes for fatal pipeline faults. These are system faults, never
// user-input problems; user-input problems surface as Rejections instead.
const (
	// ErrCodeSigningFailed indicates the key or serialization is broken.
	ErrCodeSigningFailed = "SIGNING_FAILED"

	// ErrCodeFormatUnsupported indicates the image is not a PNG.
	ErrCodeFormatUnsupported = "FORMAT_UNSUPPORTED"

	// ErrCodeImageCorrupt indicates the PNG container cannot be parsed.
	ErrCodeImageCorrupt = "IMAGE_CORRUPT"

	// ErrCodeStoreFailed indicates the object store write failed.
	ErrCodeStoreFailed = "STORE_FAILED"

	// ErrCodeMailFailed indicates email delivery failed.
	ErrCodeMailFailed = "MAIL_FAILED"
)

// Error represents a fatal issuance fault with a stable error code.
type Error struct {
	// Code is one of the *_FAILED / FORMAT_* error codes.
	Code string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new Error that wraps an underlying error.
func WrapError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// AsError checks if err is an Error and returns it if so.
func AsError(err error) (*Error, bool) {
	var issueErr *Error
	if errors.As(err, &issueErr) {
		return issueErr, true
	}
	return nil, false
}
