// Package diag provides the diagnostic data model shared by the parser and the code
// generator. Rendering to a terminal is left to callers.
package diag

import (
	"fmt"
	"strings"

	"block-lang/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Bug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Bug:
		return "bug"
	default:
		return "unknown"
	}
}

// LabelStyle distinguishes the label that points at the problem from supporting labels.
type LabelStyle int

const (
	Primary LabelStyle = iota
	Secondary
)

func (s LabelStyle) String() string {
	if s == Secondary {
		return "secondary"
	}
	return "primary"
}

// Label attaches a message to a source range.
type Label struct {
	Style   LabelStyle     `json:"style"`
	Span    span.IndexSpan `json:"span"`
	Message string         `json:"message"`
}

// Diagnostic represents a compiler diagnostic message.
type Diagnostic struct {
	Code     string   `json:"code"`             // stable error code, e.g. "E2001"
	Severity Severity `json:"severity"`         // error, warning or bug
	Message  string   `json:"message"`          // headline
	Labels   []Label  `json:"labels,omitempty"` // zero or more labelled source ranges
	Notes    []string `json:"notes,omitempty"`
}

// PrimaryLabel returns the first primary label, if any.
func (d Diagnostic) PrimaryLabel() (Label, bool) {
	for _, l := range d.Labels {
		if l.Style == Primary {
			return l, true
		}
	}
	return Label{}, false
}

// String returns a human-readable representation of the diagnostic. Positions are byte
// offsets; use span.Widen with the source to get lines and columns.
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", d.Code, d.Severity, d.Message)
	for _, l := range d.Labels {
		fmt.Fprintf(&sb, "\n  %s %s", l.Style, l.Span)
		if l.Message != "" {
			sb.WriteString(": ")
			sb.WriteString(l.Message)
		}
	}
	for _, n := range d.Notes {
		sb.WriteString("\n  note: ")
		sb.WriteString(n)
	}
	return sb.String()
}

// Errorf creates an error diagnostic with a primary label at the given span.
func Errorf(code string, s span.IndexSpan, label string, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Labels:   []Label{{Style: Primary, Span: s, Message: label}},
	}
}

// WithSecondary appends a secondary label.
func (d Diagnostic) WithSecondary(s span.IndexSpan, message string) Diagnostic {
	d.Labels = append(d.Labels, Label{Style: Secondary, Span: s, Message: message})
	return d
}

// WithNote appends a free-standing note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}
