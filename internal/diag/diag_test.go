package diag

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"block-lang/internal/span"
)

func TestErrorfAddsPrimaryLabel(t *testing.T) {
	d := Errorf("E2001", span.NewIndex(3, 5), "here", "expected %s", "`)`")

	assert.Equal(t, Error, d.Severity)
	assert.Equal(t, "expected `)`", d.Message)
	l, ok := d.PrimaryLabel()
	assert.True(t, ok)
	assert.Equal(t, span.NewIndex(3, 5), l.Span)
	assert.Equal(t, "here", l.Message)
}

func TestWithSecondaryKeepsOrder(t *testing.T) {
	d := Errorf("E2000", span.NewIndex(0, 1), "opened here", "mismatched").
		WithSecondary(span.NewIndex(9, 9), "close here")

	assert.Equal(t, 2, len(d.Labels))
	assert.Equal(t, Primary, d.Labels[0].Style)
	assert.Equal(t, Secondary, d.Labels[1].Style)
}

func TestString(t *testing.T) {
	d := Errorf("E2002", span.NewIndex(0, 0), "", "unexpected end of input").WithNote("missing `endwhile`")
	assert.Equal(t, "[E2002] error: unexpected end of input\n  primary 0..0\n  note: missing `endwhile`", d.String())
}
