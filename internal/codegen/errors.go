package codegen

import (
	"errors"
	"fmt"

	"block-lang/internal/diag"
	"block-lang/internal/span"
)

// Sentinel errors for errors.Is.
var (
	ErrTypeNotInferred   = errors.New("type could not be inferred")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrUnsupportedExpr   = errors.New("unsupported expression")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUnsupported       = errors.New("unsupported construct")
)

// ErrorKind classifies a code generation failure.
type ErrorKind int

const (
	KindTypeNotInferred ErrorKind = iota
	KindUnsupportedType
	KindUnsupportedExpr
	KindUndefinedVariable
	KindUnsupported
)

var kindInfo = map[ErrorKind]struct {
	code     string
	sentinel error
}{
	KindTypeNotInferred:   {"E3000", ErrTypeNotInferred},
	KindUnsupportedType:   {"E3001", ErrUnsupportedType},
	KindUnsupportedExpr:   {"E3002", ErrUnsupportedExpr},
	KindUndefinedVariable: {"E3003", ErrUndefinedVariable},
	KindUnsupported:       {"E3004", ErrUnsupported},
}

// Error is a reportable code generation failure located at the offending source.
type Error struct {
	Kind    ErrorKind
	Span    span.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// Unwrap returns the sentinel error of the kind.
func (e *Error) Unwrap() error {
	return kindInfo[e.Kind].sentinel
}

// Report turns the error into a renderable diagnostic.
func (e *Error) Report() diag.Diagnostic {
	info := kindInfo[e.Kind]
	label := "here"
	switch e.Kind {
	case KindTypeNotInferred:
		label = "the type of this expression could not be established"
	case KindUnsupportedType:
		label = "values of this type cannot be stored in a record yet"
	case KindUndefinedVariable:
		label = "this name has no value here"
	}
	return diag.Errorf(info.code, e.Span.IndexOnly(), label, "%s", e.Message)
}

func newError(kind ErrorKind, s span.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Span: s, Message: fmt.Sprintf(format, args...)}
}
