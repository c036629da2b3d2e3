package interpolate

import (
	"errors"
	"fmt"
)

// ErrorKind describes the type of error.
type ErrorKind int

const (
	ErrMissingFilter ErrorKind = iota
	ErrInvalidDelimiters
	ErrFilterSyntax
	ErrFilterFailed
	ErrInvalidData
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingFilter:
		return "unknown filter"
	case ErrInvalidDelimiters:
		return "invalid delimiters"
	case ErrFilterSyntax:
		return "filter syntax error"
	case ErrFilterFailed:
		return "filter failed"
	case ErrInvalidData:
		return "invalid data"
	default:
		return "error"
	}
}

// Error is returned for failures that originate in the engine. Errors from
// the expression evaluator are passed through unchanged and are not of this
// type.
type Error struct {
	Kind    ErrorKind
	Message string
	Name    string // filter name, if any
	Expr    string // placeholder text, if any
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Message, e.Expr)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithExpr adds the placeholder text to an error.
func (e *Error) WithExpr(expr string) *Error {
	e.Expr = expr
	return e
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func missingFilter(name string) *Error {
	return &Error{
		Kind:    ErrMissingFilter,
		Name:    name,
		Message: fmt.Sprintf("missing filter named %q", name),
	}
}

func invalidDelimiters(err error) *Error {
	return &Error{Kind: ErrInvalidDelimiters, Message: err.Error(), Err: err}
}
