package parser

import (
	"unicode/utf8"

	"block-lang/internal/span"
)

// TabWidth is how many indentation units a tab counts as.
const TabWidth = 4

func indentWidth(r rune) (int, bool) {
	switch r {
	case ' ', '\f', '\v':
		return 1, true
	case '\t':
		return TabWidth, true
	default:
		return 0, false
	}
}

// indentRun returns the byte length and width of the indentation at the start of the
// input.
func (in *Input) indentRun() (n, width int) {
	for n < len(in.rest) {
		r, sz := utf8.DecodeRuneInString(in.rest[n:])
		w, ok := indentWidth(r)
		if !ok {
			break
		}
		width += w
		n += sz
	}
	return n, width
}

// CountIndent returns the width of the indentation at the start of the input without
// consuming it.
func (in *Input) CountIndent() int {
	_, width := in.indentRun()
	return width
}

// AdvanceIndent consumes the indentation at the start of the input. Its width must match
// the expected indentation exactly.
func (in *Input) AdvanceIndent() error {
	n, width := in.indentRun()
	if width != in.indent {
		start := in.position.Index
		return InvalidWhitespace(span.NewIndex(start, start+n),
			"expected exactly %d units of indentation, found %d", in.indent, width)
	}
	in.consume(n)
	return nil
}

// SetIndent replaces the expected indentation width.
func (in *Input) SetIndent(width int) {
	in.indent = width
}

// IncrementIndent makes the expected indentation deeper by by units.
func (in *Input) IncrementIndent(by int) {
	in.indent += by
}

// DecrementIndent makes the expected indentation shallower by by units. Going below zero
// means an Indented scope was left twice.
func (in *Input) DecrementIndent(by int) error {
	if by > in.indent {
		return InternalError("cannot decrease indentation %d by %d", in.indent, by)
	}
	in.indent -= by
	return nil
}

// Indented runs fn with the expected indentation deepened by by units, and restores it
// afterwards whether or not fn succeeded.
func (in *Input) Indented(by int, fn func() error) error {
	in.IncrementIndent(by)
	err := fn()
	if derr := in.DecrementIndent(by); derr != nil && err == nil {
		err = derr
	}
	return err
}
