package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"block-lang/internal/span"
)

// Input is a parsing cursor: the text not consumed yet, the position where it starts, and
// the indentation width the current block expects.
//
// Input is a small value. Copying it is how the parser looks ahead without consuming:
// work on a copy and assign it back only if the attempt succeeded.
type Input struct {
	rest     string
	position span.Position
	indent   int
}

// NewInput returns a cursor at the start of source with zero indentation.
func NewInput(source string) *Input {
	return &Input{rest: source}
}

// Rest returns the unconsumed text.
func (in *Input) Rest() string { return in.rest }

// Position returns the position of the next unconsumed character.
func (in *Input) Position() span.Position { return in.position }

// Indent returns the expected indentation width.
func (in *Input) Indent() int { return in.indent }

// Len returns the number of unconsumed bytes.
func (in *Input) Len() int { return len(in.rest) }

// IsEmpty reports whether everything has been consumed.
func (in *Input) IsEmpty() bool { return len(in.rest) == 0 }

// Here is a zero-width span at the current position.
func (in *Input) Here() span.IndexSpan {
	return span.NewIndex(in.position.Index, in.position.Index)
}

// PeekChar returns the next character.
func (in *Input) PeekChar() (rune, bool) {
	return in.PeekNth(0)
}

// PeekNth returns the n-th unconsumed character, counting from zero.
func (in *Input) PeekNth(n int) (rune, bool) {
	s := in.rest
	for i := 0; len(s) > 0; i++ {
		r, w := utf8.DecodeRuneInString(s)
		if i == n {
			return r, true
		}
		s = s[w:]
	}
	return 0, false
}

// charBytes returns how many bytes the next k characters occupy.
func (in *Input) charBytes(k int) (int, bool) {
	n := 0
	for i := 0; i < k; i++ {
		if n >= len(in.rest) {
			return 0, false
		}
		_, w := utf8.DecodeRuneInString(in.rest[n:])
		n += w
	}
	return n, true
}

// PeekN returns the next k characters without consuming them. It reports false if fewer
// than k characters remain.
func (in *Input) PeekN(k int) (string, bool) {
	if k <= 0 {
		return "", true
	}
	n, ok := in.charBytes(k)
	if !ok {
		return "", false
	}
	return in.rest[:n], true
}

// PeekToken reports whether the next character is r.
func (in *Input) PeekToken(r rune) bool {
	c, ok := in.PeekChar()
	return ok && c == r
}

// StartsWith reports whether the unconsumed text begins with s.
func (in *Input) StartsWith(s string) bool {
	return strings.HasPrefix(in.rest, s)
}

// PeekLine returns the rest of the current line, without the line break.
func (in *Input) PeekLine() string {
	if i := strings.IndexByte(in.rest, '\n'); i >= 0 {
		return in.rest[:i]
	}
	return in.rest
}

func (in *Input) consume(n int) string {
	taken := in.rest[:n]
	in.position = in.position.AdvanceString(taken)
	in.rest = in.rest[n:]
	return taken
}

// AdvanceN consumes the next k characters and returns them.
func (in *Input) AdvanceN(k int) (string, error) {
	if k <= 0 {
		return "", nil
	}
	n, ok := in.charBytes(k)
	if !ok {
		return "", UnexpectedEndOfInput(in.Here())
	}
	return in.consume(n), nil
}

// AdvanceOne consumes a single character.
func (in *Input) AdvanceOne() (string, error) {
	return in.AdvanceN(1)
}

// ParseToken consumes token if the input starts with it. Tokens are compared character
// by character, so a multi-byte token consumes as many characters as it has.
func (in *Input) ParseToken(token string) (string, error) {
	k := utf8.RuneCountInString(token)
	found, ok := in.PeekN(k)
	if !ok {
		return "", UnexpectedEndOfInput(in.Here())
	}
	if found != token {
		start := in.position.Index
		return "", UnexpectedToken(span.NewIndex(start, start+len(token)),
			"expected %s in this position, however, instead there was %s", describe(token), describe(found))
	}
	return in.consume(len(found)), nil
}

func describe(s string) string {
	switch s {
	case "\n":
		return "a new line"
	case "":
		return "nothing"
	}
	if strings.Contains(s, "\n") {
		return fmt.Sprintf("%q", s)
	}
	return "`" + s + "`"
}

func isInlineSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// SkipWhitespace consumes whitespace up to, and not including, the next line break.
func (in *Input) SkipWhitespace() {
	n := 0
	for n < len(in.rest) {
		r, w := utf8.DecodeRuneInString(in.rest[n:])
		if !isInlineSpace(r) {
			break
		}
		n += w
	}
	in.consume(n)
}

// AdvanceWhitespaceAndNewLine consumes the rest of an otherwise blank line including its
// line break.
func (in *Input) AdvanceWhitespaceAndNewLine() error {
	in.SkipWhitespace()
	_, err := in.ParseToken("\n")
	return err
}

// AssertNewLine fails unless the next character is a line break. Nothing is consumed.
func (in *Input) AssertNewLine() error {
	r, ok := in.PeekChar()
	if !ok {
		return UnexpectedEndOfInput(in.Here())
	}
	if r != '\n' {
		return UnexpectedToken(in.charSpan(), "expected a new line, found %s", describe(string(r)))
	}
	return nil
}

// EatUntil consumes characters until stop matches one, and returns them. The stopping
// character stays in the input. Running out of input first is an error.
func (in *Input) EatUntil(stop func(rune) bool) (string, error) {
	n, found := in.scan(stop)
	if !found {
		return "", UnexpectedEndOfInput(span.NewIndex(in.position.Index+len(in.rest), in.position.Index+len(in.rest)))
	}
	return in.consume(n), nil
}

// EatUntilOrEnd is EatUntil where running out of input ends the run successfully.
func (in *Input) EatUntilOrEnd(stop func(rune) bool) string {
	n, _ := in.scan(stop)
	return in.consume(n)
}

func (in *Input) scan(stop func(rune) bool) (int, bool) {
	n := 0
	for n < len(in.rest) {
		r, w := utf8.DecodeRuneInString(in.rest[n:])
		if stop(r) {
			return n, true
		}
		n += w
	}
	return n, false
}

// charSpan covers the next character, or is empty at the end of input.
func (in *Input) charSpan() span.IndexSpan {
	start := in.position.Index
	if in.IsEmpty() {
		return span.NewIndex(start, start)
	}
	_, w := utf8.DecodeRuneInString(in.rest)
	return span.NewIndex(start, start+w)
}

// Recording marks a point in the input so a span can be taken once a construct is parsed.
type Recording struct {
	start span.Position
}

// StartRecording marks the current position.
func (in *Input) StartRecording() Recording {
	return Recording{start: in.position}
}

// FinishRecording returns the span from the recorded position to the current one.
func (in *Input) FinishRecording(rec Recording) span.Span {
	return span.New(rec.start, in.position)
}
