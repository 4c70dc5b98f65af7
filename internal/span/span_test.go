package span

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAdvanceString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Position
	}{
		{name: "ascii", input: "abc", want: Position{Index: 3, Line: 0, Column: 3}},
		{name: "newline resets column", input: "ab\ncd", want: Position{Index: 5, Line: 1, Column: 2}},
		{name: "multi-byte counts one column", input: "│x", want: Position{Index: 4, Line: 0, Column: 2}},
		{name: "trailing newline", input: "a\n", want: Position{Index: 2, Line: 1, Column: 0}},
		{name: "invalid byte is one byte wide", input: "\xffa", want: Position{Index: 2, Line: 0, Column: 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Position{}.AdvanceString(test.input))
		})
	}
}

func TestCompare(t *testing.T) {
	a := Position{Index: 1}
	b := Position{Index: 4, Line: 1}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	assert.Equal(t, -1, NewIndex(0, 1).Compare(NewIndex(0, 2)))
	assert.Equal(t, 1, NewIndex(2, 2).Compare(NewIndex(0, 5)))
}

func TestIndexOnly(t *testing.T) {
	s := New(Position{Index: 2, Line: 0, Column: 2}, Position{Index: 7, Line: 1, Column: 1})
	assert.Equal(t, NewIndex(2, 7), s.IndexOnly())
	assert.Equal(t, 5, s.Len())
}

func TestLocate(t *testing.T) {
	src := "ab\n│cd"
	assert.Equal(t, Position{Index: 0}, Locate(src, 0))
	assert.Equal(t, Position{Index: 3, Line: 1, Column: 0}, Locate(src, 3))
	// inside the 3-byte character rounds down
	assert.Equal(t, Position{Index: 3, Line: 1, Column: 0}, Locate(src, 4))
	assert.Equal(t, Position{Index: 6, Line: 1, Column: 1}, Locate(src, 6))
	assert.Equal(t, Position{Index: 8, Line: 1, Column: 3}, Locate(src, 100))
}

func TestWiden(t *testing.T) {
	s := Widen("x\nyz", NewIndex(2, 4))
	assert.Equal(t, Position{Index: 2, Line: 1, Column: 0}, s.Start)
	assert.Equal(t, Position{Index: 4, Line: 1, Column: 2}, s.End)
}
