package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service errors so the HTTP boundary can translate them
// into response codes without string matching.
type ErrorKind string

const (
	// KindNotFound - a referenced document id has no stored file or metadata
	KindNotFound ErrorKind = "not_found"
	// KindInvalidInput - empty question, out-of-range result count, malformed upload
	KindInvalidInput ErrorKind = "invalid_input"
	// KindConfiguration - missing API credential or embedding dimension mismatch; fatal, non-retryable
	KindConfiguration ErrorKind = "configuration"
	// KindUpstream - network or API failure calling an external service
	KindUpstream ErrorKind = "upstream"
	// KindStorage - index or file persistence failure; fatal for the current operation
	KindStorage ErrorKind = "storage"
)

// ServiceError carries a machine-checkable kind plus a human-readable message.
// Internal detail stays in the wrapped cause and is never serialized.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// NewError creates a ServiceError with the given kind and message
func NewError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

// Errorf creates a ServiceError with a formatted message
func Errorf(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps a cause with a kind and message, preserving the chain for errors.Is/As
func WrapError(kind ErrorKind, message string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, cause: cause}
}

// KindOf returns the error kind, or KindStorage for errors that carry no kind.
// Unclassified failures are treated as internal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// PublicMessage returns the message safe to expose across the service boundary
func PublicMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal error"
}
