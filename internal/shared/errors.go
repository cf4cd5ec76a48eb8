package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Kind classifies an [Error] into one of the failure categories surfaced to API callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Sentinels for [errors.Is] comparisons. Any [*Error] of the same [Kind] matches.
var (
	ErrInternal       = &Error{Kind: KindInternal, Message: "internal error"}
	ErrValidation     = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "authentication failed"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "conflict"}
)

// Error is a domain failure carrying a taxonomy [Kind], a caller-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an [*Error] with the same [Kind].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a [KindValidation] error.
func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// Authentication creates a [KindAuthentication] error.
func Authentication(format string, args ...any) *Error {
	return newError(KindAuthentication, format, args...)
}

// NotFound creates a [KindNotFound] error.
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// Conflict creates a [KindConflict] error.
func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// Internal wraps err as a [KindInternal] error. The message is what callers see; err is kept for logs.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the [Kind] of the first [*Error] in err's chain, or [KindInternal].
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message of the first [*Error] in err's chain, or fallback.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
