// Package span provides source position and span types used across the compiler.
package span

import (
	"fmt"
	"unicode/utf8"
)

// Position represents a position in source code.
type Position struct {
	Index  int `json:"index"`  // byte offset from beginning of source
	Line   int `json:"line"`   // 0-based line number
	Column int `json:"column"` // 0-based column, counted in characters
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Advance returns the position after consuming r, which occupied width bytes.
func (p Position) Advance(r rune, width int) Position {
	p.Index += width
	if r == '\n' {
		p.Line++
		p.Column = 0
	} else {
		p.Column++
	}
	return p
}

// AdvanceString folds Advance over every character of s.
func (p Position) AdvanceString(s string) Position {
	for len(s) > 0 {
		r, width := utf8.DecodeRuneInString(s)
		p = p.Advance(r, width)
		s = s[width:]
	}
	return p
}

// Compare orders positions by byte index.
func (p Position) Compare(other Position) int {
	switch {
	case p.Index < other.Index:
		return -1
	case p.Index > other.Index:
		return 1
	default:
		return 0
	}
}

// Span represents a range in source code [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// New creates a span from two positions.
func New(start, end Position) Span {
	return Span{Start: start, End: end}
}

// At returns a zero-width span at p.
func At(p Position) Span {
	return Span{Start: p, End: p}
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Index - s.Start.Index
}

// IndexOnly drops line and column information.
func (s Span) IndexOnly() IndexSpan {
	return IndexSpan{Start: s.Start.Index, End: s.End.Index}
}

// Compare orders spans by start index, then end index.
func (s Span) Compare(other Span) int {
	if c := s.Start.Compare(other.Start); c != 0 {
		return c
	}
	return s.End.Compare(other.End)
}

// IndexSpan is a span that only records byte offsets. It is what diagnostics carry when the
// line and column can be recomputed from the source at render time.
type IndexSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewIndex creates an index-only span.
func NewIndex(start, end int) IndexSpan {
	return IndexSpan{Start: start, End: end}
}

func (s IndexSpan) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s IndexSpan) Len() int {
	return s.End - s.Start
}

// Range returns the half-open byte range, convenient for slicing the source.
func (s IndexSpan) Range() (int, int) {
	return s.Start, s.End
}

// Compare orders spans by start index, then end index.
func (s IndexSpan) Compare(other IndexSpan) int {
	switch {
	case s.Start != other.Start:
		if s.Start < other.Start {
			return -1
		}
		return 1
	case s.End < other.End:
		return -1
	case s.End > other.End:
		return 1
	default:
		return 0
	}
}

// Locate recomputes the full position of a byte index within source. Indices past the end
// of source are clamped to the end; an index inside a multi-byte character is rounded down
// to the start of that character.
func Locate(source string, index int) Position {
	var pos Position
	for pos.Index < len(source) {
		r, width := utf8.DecodeRuneInString(source[pos.Index:])
		if pos.Index+width > index {
			break
		}
		pos = pos.Advance(r, width)
	}
	return pos
}

// Widen recomputes full positions for an index-only span.
func Widen(source string, s IndexSpan) Span {
	return Span{Start: Locate(source, s.Start), End: Locate(source, s.End)}
}
