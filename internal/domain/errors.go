package domain

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Kinds are sentinels and match through
// errors.Is on any *Error that carries them.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrConfiguration marks a malformed or missing configuration field that was replaced by a default.
	ErrConfiguration = NewKind("configuration error")
	// ErrInvalidScanTarget marks a monitor directory that is missing or not a directory.
	ErrInvalidScanTarget = NewKind("invalid scan target")
	// ErrDuplicateCategory is returned when adding a category that already exists.
	ErrDuplicateCategory = NewKind("duplicate category")
	// ErrUnknownCategory is returned when extending a category that does not exist.
	ErrUnknownCategory = NewKind("unknown category")
	// ErrNotFound is returned when removing a category or extension that is absent.
	ErrNotFound = NewKind("not found")
	// ErrReservedCategory is returned when a category would shadow the Unclassified folder.
	ErrReservedCategory = NewKind("reserved category")
	// ErrInvalidCategory is returned for names that cannot be used as a folder name.
	ErrInvalidCategory = NewKind("invalid category name")
	// ErrInvalidExtension is returned for empty extensions.
	ErrInvalidExtension = NewKind("invalid extension")
	// ErrInvalidInterval is returned for non-positive scheduler intervals.
	ErrInvalidInterval = NewKind("invalid interval")
	// ErrMoveFailure marks a per-item move failure.
	ErrMoveFailure = NewKind("move failure")
	// ErrCollisionExhausted is returned when no free suffixed name could be found.
	ErrCollisionExhausted = NewKind("collision suffixes exhausted")
)

// Error carries a semantic kind, a message and an optional cause.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs an error of kind k wrapping cause.
func Wrap(k Kind, cause error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: cause, msg: fmt.Sprintf(msgFmt, args...)}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.kind.Error() + ": " + e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is matches either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	return e.err != nil && errors.Is(e.err, target)
}

// Kind returns the semantic kind of the error.
func (e *Error) Kind() Kind { return e.kind }
