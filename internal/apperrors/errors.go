package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the failure class an operation surfaced. Handlers map
// kinds to HTTP statuses; services never translate them.
type Kind string

const (
	KindRateLimited            Kind = "RATE_LIMITED"
	KindOutOfStock             Kind = "OUT_OF_STOCK"
	KindNoChancesLeft          Kind = "NO_CHANCES_LEFT"
	KindExpiredToken           Kind = "EXPIRED_TOKEN"
	KindNotFound               Kind = "NOT_FOUND"
	KindConflictRetryExhausted Kind = "CONFLICT_RETRY_EXHAUSTED"
	KindValidation             Kind = "VALIDATION"
)

// ErrConflict is the retryable sentinel a repository returns when an
// optimistic compare-and-swap loses to a concurrent writer.
var ErrConflict = errors.New("optimistic write conflict")

// Error is a kinded application error
type Error struct {
	Kind      Kind
	Message   string
	Remaining time.Duration // KindRateLimited: wait before the next draw is allowed
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error with the given kind wrapping a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// RateLimited reports a draw attempted before the participation
// interval elapsed; remaining is the wait still due.
func RateLimited(remaining time.Duration) *Error {
	return &Error{
		Kind:      KindRateLimited,
		Message:   fmt.Sprintf("participation interval not elapsed, retry in %s", remaining),
		Remaining: remaining,
	}
}

// Validation reports a malformed catalog or request
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound reports a missing document
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of err, or "" when err carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
