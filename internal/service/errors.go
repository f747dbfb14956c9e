package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service error
type Kind int

const (
	// KindInternal is an unclassified storage or system failure
	KindInternal Kind = iota
	// KindUnauthorized means no identity, or identity does not own the resource
	KindUnauthorized
	// KindNotFound means no row exists for the given key
	KindNotFound
	// KindConflict means a unique constraint was violated (slug, username, tag name)
	KindConflict
	// KindValidationFailed means caller-supplied data failed a precondition
	KindValidationFailed
	// KindServiceUnavailable means the compute backend is unreachable or rejected the request
	KindServiceUnavailable
	// KindPartialFailure means a multi-step operation succeeded partially;
	// the created resource exists but dependent state may be incomplete
	KindPartialFailure
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidationFailed:
		return "validation_failed"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindPartialFailure:
		return "partial_failure"
	default:
		return "internal"
	}
}

// Error is a structured service error carrying the failing operation name.
// User-visible formatting is the caller's concern.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError creates a new service error
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates a new service error from a format string
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind from an error chain. Errors that did not
// originate here classify as internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
