package parser

import (
	"errors"
	"fmt"

	"block-lang/internal/diag"
	"block-lang/internal/span"
)

// ErrorKind classifies a parse failure. The set may grow: callers that switch on it must
// keep a default branch.
type ErrorKind int

const (
	KindMismatchedBrackets ErrorKind = iota
	KindUnexpectedToken
	KindUnexpectedEndOfInput
	// KindInternalError marks a broken parser assumption. Valid input never produces it.
	KindInternalError
	KindInvalidWhitespace
	KindInvalidIdent
	KindExprError
	// KindOther is the catch-all for failures without a dedicated kind yet.
	KindOther
)

// Sentinel errors, one per kind, for errors.Is.
var (
	ErrMismatchedBrackets   = errors.New("mismatched brackets")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrInternal             = errors.New("internal parser error")
	ErrInvalidWhitespace    = errors.New("invalid whitespace")
	ErrInvalidIdent         = errors.New("invalid identifier")
	ErrExpr                 = errors.New("invalid expression")
	ErrOther                = errors.New("syntax error")
)

var kindInfo = map[ErrorKind]struct {
	code     string
	sentinel error
}{
	KindMismatchedBrackets:   {"E2000", ErrMismatchedBrackets},
	KindUnexpectedToken:      {"E2001", ErrUnexpectedToken},
	KindUnexpectedEndOfInput: {"E2002", ErrUnexpectedEndOfInput},
	KindInternalError:        {"E2003", ErrInternal},
	KindInvalidWhitespace:    {"E2004", ErrInvalidWhitespace},
	KindInvalidIdent:         {"E2005", ErrInvalidIdent},
	KindExprError:            {"E2006", ErrExpr},
	KindOther:                {"E2099", ErrOther},
}

func (k ErrorKind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.sentinel.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Code returns the stable diagnostic code for the kind.
func (k ErrorKind) Code() string {
	if info, ok := kindInfo[k]; ok {
		return info.code
	}
	return kindInfo[KindOther].code
}

// Error is a parse failure. It is immutable once built and carries everything needed to
// render its diagnostic.
type Error struct {
	Kind        ErrorKind
	Span        span.IndexSpan
	Explanation string

	// ExpectedClosing is where a missing closing bracket probably belongs. Only set for
	// KindMismatchedBrackets, and only when it can be inferred.
	ExpectedClosing *span.IndexSpan
}

func (e *Error) Error() string {
	if e.Explanation == "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Span)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Explanation)
}

// Unwrap returns the sentinel error of the kind.
func (e *Error) Unwrap() error {
	if info, ok := kindInfo[e.Kind]; ok {
		return info.sentinel
	}
	return ErrOther
}

// MismatchedBrackets reports a bracket opened at opening that is never closed.
func MismatchedBrackets(opening span.IndexSpan, expectedClosing *span.IndexSpan) *Error {
	return &Error{Kind: KindMismatchedBrackets, Span: opening, ExpectedClosing: expectedClosing}
}

// UnexpectedToken reports text that does not fit the grammar at s.
func UnexpectedToken(s span.IndexSpan, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnexpectedToken, Span: s, Explanation: fmt.Sprintf(format, args...)}
}

// UnexpectedEndOfInput reports that the input ran out at s.
func UnexpectedEndOfInput(s span.IndexSpan) *Error {
	return &Error{Kind: KindUnexpectedEndOfInput, Span: s}
}

// InternalError reports a state the parser should never reach.
func InternalError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternalError, Explanation: fmt.Sprintf(format, args...)}
}

// InvalidWhitespace reports indentation that does not match the enclosing block.
func InvalidWhitespace(s span.IndexSpan, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidWhitespace, Span: s, Explanation: fmt.Sprintf(format, args...)}
}

// InvalidIdent reports a malformed or reserved name.
func InvalidIdent(s span.IndexSpan, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidIdent, Span: s, Explanation: fmt.Sprintf(format, args...)}
}

// ExprError reports a well-tokenised but invalid expression.
func ExprError(s span.IndexSpan, format string, args ...interface{}) *Error {
	return &Error{Kind: KindExprError, Span: s, Explanation: fmt.Sprintf(format, args...)}
}

// Other reports a failure that has no dedicated kind.
func Other(s span.IndexSpan, format string, args ...interface{}) *Error {
	return &Error{Kind: KindOther, Span: s, Explanation: fmt.Sprintf(format, args...)}
}

// Report turns the error into a renderable diagnostic.
func (e *Error) Report() diag.Diagnostic {
	code := e.Kind.Code()
	switch e.Kind {
	case KindUnexpectedToken, KindInvalidWhitespace, KindInvalidIdent, KindExprError:
		return diag.Errorf(code, e.Span, e.Explanation, "your program contains a syntax error")
	case KindUnexpectedEndOfInput:
		return diag.Errorf(code, e.Span, "something's missing here", "unexpected end of input")
	case KindMismatchedBrackets:
		d := diag.Errorf(code, e.Span, "this bracket is opened, but it is never closed", "mismatched brackets")
		if e.ExpectedClosing != nil {
			d = d.WithSecondary(*e.ExpectedClosing, "perhaps the missing closing bracket should go here")
		}
		return d
	case KindInternalError:
		d := diag.Diagnostic{
			Code:     code,
			Severity: diag.Bug,
			Message:  "internal compiler error, please report this along with the program that caused it",
		}
		if e.Explanation != "" {
			d = d.WithNote(e.Explanation)
		}
		return d
	default:
		label := e.Explanation
		if label == "" {
			label = "the parser could not make sense of the program from here on"
		}
		return diag.Errorf(code, e.Span, label, "your program contains a syntax error")
	}
}
