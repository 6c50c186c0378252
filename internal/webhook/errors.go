package webhook

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a verification failure.
type ErrorKind string

const (
	// ErrKindMissingHeader indicates a required request header was absent.
	ErrKindMissingHeader ErrorKind = "missing_header"
	// ErrKindInvalidHeader indicates a header was present but malformed
	// (wrong prefix, undecodable signature encoding, etc.).
	ErrKindInvalidHeader ErrorKind = "invalid_header"
	// ErrKindTimestamp indicates a replay timestamp was unparsable or
	// outside the allowed bounds.
	ErrKindTimestamp ErrorKind = "timestamp"
	// ErrKindSignature indicates the cryptographic check itself failed.
	ErrKindSignature ErrorKind = "signature"
	// ErrKindDeserialize indicates the verified body could not be decoded
	// into the caller's payload type.
	ErrKindDeserialize ErrorKind = "deserialize"
	// ErrKindRead indicates the request body could not be fully read.
	ErrKindRead ErrorKind = "read"
	// ErrKindNotAttached indicates no provider configuration was registered
	// for the requested key.
	ErrKindNotAttached ErrorKind = "not_attached"
)

// Error is the structured verification error returned by the engine.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a webhook Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind == kind
	}
	return false
}

// MissingHeaderError creates an error for an absent required header
func MissingHeaderError(name string) *Error {
	return &Error{
		Kind:    ErrKindMissingHeader,
		Message: fmt.Sprintf("missing header '%s'", name),
	}
}

// InvalidHeaderError creates an error for a malformed header
func InvalidHeaderError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    ErrKindInvalidHeader,
		Message: fmt.Sprintf(format, args...),
	}
}

// TimestampError creates a replay-window violation error
func TimestampError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    ErrKindTimestamp,
		Message: fmt.Sprintf(format, args...),
	}
}

// SignatureError creates an error for a failed cryptographic check.
// The message is intentionally generic when several rotation candidates
// were tried, so callers cannot learn which candidate came close.
func SignatureError(msg string) *Error {
	return &Error{
		Kind:    ErrKindSignature,
		Message: msg,
	}
}

// DeserializeError creates an error for a payload decode failure
func DeserializeError(cause error) *Error {
	return &Error{
		Kind:    ErrKindDeserialize,
		Message: "failed to deserialize webhook payload",
		Cause:   cause,
	}
}

// ReadError creates an error for a body read failure
func ReadError(cause error) *Error {
	return &Error{
		Kind:    ErrKindRead,
		Message: "failed to read webhook body",
		Cause:   cause,
	}
}

// NotAttachedError creates an error for a missing provider registration
func NotAttachedError(key string) *Error {
	return &Error{
		Kind:    ErrKindNotAttached,
		Message: fmt.Sprintf("no webhook provider registered for '%s'", key),
	}
}
