// Package errz defines the structured errors reported by the Roar
// toolchain, along with terminal formatting and "did you mean"
// suggestions for diagnostics.
package errz

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind int

const (
	// ErrSyntax indicates a syntax/parsing error.
	ErrSyntax Kind = iota
	// ErrSemantic indicates a static analysis error such as an
	// undeclared variable or a misused statement.
	ErrSemantic
	// ErrType indicates a type mismatch or invalid operation on a type.
	ErrType
	// ErrTarget indicates an unknown or unsupported generation target.
	ErrTarget
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrSemantic:
		return "semantic error"
	case ErrType:
		return "type error"
	case ErrTarget:
		return "target error"
	default:
		return "error"
	}
}

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // the line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// Error is a structured error with a kind, a source location and an
// optional hint for the user.
type Error struct {
	Kind     Kind
	Message  string
	Location SourceLocation
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Kind, e.Message, e.Location.Line, e.Location.Column)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithLocation attaches a source location, unless one is already set.
func (e *Error) WithLocation(loc SourceLocation) *Error {
	if e.Location.IsZero() {
		e.Location = loc
	}
	return e
}

// WithHint attaches a hint shown below the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithCause wraps the error with a cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// As unwraps err to a structured *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind returns true if err is a structured error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}
