// Package errs defines the error kinds the core pipeline surfaces,
// per spec.md §7. Each kind wraps github.com/pkg/errors the same way the
// teacher repo wraps pdfium failures, so callers get both a stack trace
// and a stable sentinel to match on.
package errs

import "github.com/pkg/errors"

// Kind classifies an error for the propagation policy in spec.md §7:
// only Parse, IO and Cancelled are fatal; the rest degrade the result.
type Kind int

const (
	KindParse Kind = iota
	KindEmptyInput
	KindInconsistentGeometry
	KindModuleFailure
	KindIO
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindEmptyInput:
		return "EmptyInput"
	case KindInconsistentGeometry:
		return "InconsistentGeometry"
	case KindModuleFailure:
		return "ModuleFailure"
	case KindIO:
		return "IOError"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is a typed, wrapped pipeline error.
type Error struct {
	Kind   Kind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.Reason + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.cause }

// Fatal reports whether the propagation policy requires this error to
// abort the run (spec.md §7: only Parse, IO, Cancelled are fatal).
func (e *Error) Fatal() bool {
	switch e.Kind {
	case KindParse, KindIO, KindCancelled:
		return true
	default:
		return false
	}
}

// New builds an Error of the given kind, wrapping cause with pkg/errors
// for a stack trace the way the teacher wraps pdfium call failures.
func New(kind Kind, reason string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, reason)
	} else {
		wrapped = errors.New(reason)
	}
	return &Error{Kind: kind, Reason: reason, cause: wrapped}
}

func ParseError(reason string, cause error) *Error {
	return New(KindParse, reason, cause)
}

func EmptyInput(reason string) *Error {
	return New(KindEmptyInput, reason, nil)
}

func InconsistentGeometry(reason string, cause error) *Error {
	return New(KindInconsistentGeometry, reason, cause)
}

func ModuleFailure(module string, cause error) *Error {
	return New(KindModuleFailure, "module "+module+" failed", cause)
}

func IOError(reason string, cause error) *Error {
	return New(KindIO, reason, cause)
}

func Cancelled(reason string) *Error {
	return New(KindCancelled, reason, nil)
}
