// Package axerr defines the error taxonomy shared by every component of the
// engine. All platform backend failures are mapped into one of these kinds
// at the backend boundary; nothing else crosses component boundaries.
package axerr

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable classification of an engine failure.
type Kind string

const (
	// ElementNotFound: no node matched within the deadline, or a
	// previously-resolved node vanished before an action could run.
	ElementNotFound Kind = "element_not_found"
	// Timeout: a match was found but a requested condition never became
	// true before the deadline.
	Timeout Kind = "timeout"
	// PermissionDenied: the OS denied the accessibility query or action.
	PermissionDenied Kind = "permission_denied"
	// PlatformError: an underlying native API call failed for a reason not
	// covered by the other kinds.
	PlatformError Kind = "platform_error"
	// UnsupportedOperation: the requested action has no native or fallback
	// implementation for the matched element's role.
	UnsupportedOperation Kind = "unsupported_operation"
	// UnsupportedPlatform: no platform backend exists for this OS.
	UnsupportedPlatform Kind = "unsupported_platform"
	// InvalidArgument: a selector failed to parse or a parameter is
	// structurally invalid.
	InvalidArgument Kind = "invalid_argument"
	// Internal: an invariant violation inside the engine. Always a bug.
	Internal Kind = "internal_error"
)

// Error carries a taxonomy kind, a human message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match against a bare kind sentinel produced by New(kind, "").
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind with an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the taxonomy kind of err, or Internal if err carries none.
// A nil error has no kind and returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the wait/retry engine may retry after this
// failure. Only "not yet found" is retryable; permission, argument,
// unsupported-operation and internal failures are fatal per call.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ElementNotFound, Timeout, PlatformError:
		return true
	default:
		return false
	}
}
