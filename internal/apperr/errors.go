// Package apperr defines the error taxonomy shared by the governance,
// permission, and costing layers. All kinds are expected, recoverable-by-
// caller outcomes; infrastructure failures are wrapped separately by the
// repositories.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindUnauthorized      Kind = "UNAUTHORIZED"       // no actor identity
	KindForbidden         Kind = "FORBIDDEN"          // identity present, permission denied
	KindNotFound          Kind = "NOT_FOUND"          // entity id unresolved
	KindInvalidTransition Kind = "INVALID_TRANSITION" // state-machine rule violation
	KindConflict          Kind = "CONFLICT"           // cross-entity guard failed
	KindValidation        Kind = "VALIDATION"         // malformed input
)

// Error carries a machine-readable kind plus a human-readable message so
// callers can render "why" without a second round trip.
type Error struct {
	Kind    Kind
	Message string

	// AllowedTargets is populated for INVALID_TRANSITION errors with the
	// legal successor set of the current state.
	AllowedTargets []string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports kind equality, so errors.Is(err, &Error{Kind: KindNotFound})
// and the sentinel helpers below both work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition builds the transition error with the legal target set
// enumerated in the message. targets may be empty for terminal states.
func InvalidTransition(current string, target string, targets []string) *Error {
	msg := fmt.Sprintf("cannot transition from %s to %s: no legal targets (terminal state)", current, target)
	if len(targets) > 0 {
		msg = fmt.Sprintf("cannot transition from %s to %s: legal targets are %s",
			current, target, strings.Join(targets, ", "))
	}
	return &Error{Kind: KindInvalidTransition, Message: msg, AllowedTargets: targets}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
