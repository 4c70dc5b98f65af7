package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"block-lang/internal/config"
	"block-lang/internal/diag"
	"block-lang/internal/parser"
	"block-lang/internal/span"
)

func render(source string, d diag.Diagnostic) string {
	var buf bytes.Buffer
	(&renderer{w: &buf, name: "t.block", source: source}).render(d)
	return buf.String()
}

func TestRenderUnderlinesSpan(t *testing.T) {
	got := render("x = (1 + 2\n",
		diag.Errorf("E2001", span.NewIndex(4, 5), "this bracket", "your program contains a syntax error"))
	want := "error[E2001]: your program contains a syntax error\n" +
		" --> t.block:1:5\n" +
		"  |\n" +
		"1 | x = (1 + 2\n" +
		"  |     ^ this bracket\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestRenderWideCharacters(t *testing.T) {
	source := "s = \"日本\" + 1\n"
	at := strings.Index(source, "1")
	got := render(source, diag.Errorf("E3002", span.NewIndex(at, at+1), "", "m"))
	assert.Contains(t, got, " --> t.block:1:12\n")
	assert.Contains(t, got, "  | "+strings.Repeat(" ", 13)+"^\n")
}

func TestRenderWholeSpanAndTabs(t *testing.T) {
	source := "\tx = abc\n"
	got := render(source, diag.Errorf("E3003", span.NewIndex(5, 8), "here", "m"))
	assert.Contains(t, got, "  | \t    ^^^ here\n")
}

func TestRenderSecondaryLabelAndGutter(t *testing.T) {
	source := strings.Repeat("\n", 9) + "x = (1\n"
	open := strings.Index(source, "(")
	d := diag.Errorf("E2000", span.NewIndex(open, open+1), "opened", "m").
		WithSecondary(span.NewIndex(len(source)-1, len(source)-1), "closed")
	got := render(source, d)
	assert.Contains(t, got, "  --> t.block:10:5\n")
	assert.Contains(t, got, "10 | x = (1\n")
	assert.Contains(t, got, "   |     ^ opened\n")
	assert.Contains(t, got, "   |       - closed\n")
}

func TestRenderCRLFLineEnd(t *testing.T) {
	source := "x = (1\r\n"
	_, err := parser.Parse(source)
	assert.Error(t, err)

	got := render(source, reportOf(err))
	assert.Contains(t, got, "1 | x = (1\n")
	assert.Contains(t, got, "  |     ^ ")
	assert.Contains(t, got, "  | "+strings.Repeat(" ", 6)+"- ")

	// A label that starts on the "\n" of a CRLF line.
	got = render(source, diag.Errorf("E2002", span.NewIndex(7, 7), "here", "m"))
	assert.Contains(t, got, "  | "+strings.Repeat(" ", 6)+"^ here\n")
}

func TestRenderNotesWithoutLabels(t *testing.T) {
	got := render("", diag.Diagnostic{Code: "E2003", Severity: diag.Bug, Message: "m", Notes: []string{"n"}})
	assert.Equal(t, "bug[E2003]: m\n  = note: n\n\n", got)
}

func TestBlockDepth(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"function main()", 1},
		{"  while x < 3", 1},
		{"record P", 1},
		{"endrecord", -1},
		{"  next i", -1},
		{"  else", 0},
		{"x = 1", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, blockDepth(tt.line))
		})
	}
}

type testContext struct {
	*Context
	stdout, stderr *bytes.Buffer
}

func newContext() testContext {
	var stdout, stderr bytes.Buffer
	return testContext{
		Context: &Context{
			Config: config.Default(),
			Logger: slog.New(slog.DiscardHandler),
			Stdout: &stdout,
			Stderr: &stderr,
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.block")
	assert.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

const program = `record P
  a of Int
  b of Bool
endrecord
function main()
  return P {a: 1, b: True}
endfunction
`

func TestFmtCmd(t *testing.T) {
	ctx := newContext()
	path := writeSource(t, "x = 1 + 2 * 3\n")
	assert.NoError(t, (&FmtCmd{File: path}).Run(ctx.Context))
	assert.Equal(t, "x = (1 + (2 * 3))\n", ctx.stdout.String())

	assert.NoError(t, (&FmtCmd{File: path, Write: true}).Run(ctx.Context))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "x = (1 + (2 * 3))\n", string(data))
}

func TestParseCmd(t *testing.T) {
	ctx := newContext()
	path := writeSource(t, program)
	assert.NoError(t, (&ParseCmd{File: path, JSON: true}).Run(ctx.Context))

	var tree map[string]interface{}
	assert.NoError(t, json.Unmarshal(ctx.stdout.Bytes(), &tree))
	assert.Equal(t, "File", tree["kind"])
	assert.Equal(t, 2, len(tree["body"].([]interface{})))

	ctx = newContext()
	assert.NoError(t, (&ParseCmd{File: path}).Run(ctx.Context))
	assert.Contains(t, ctx.stdout.String(), "kind: RecordDecl")
	assert.NotContains(t, ctx.stdout.String(), "span")
}

func TestParseCmdSyntaxError(t *testing.T) {
	ctx := newContext()
	path := writeSource(t, "x = (1 + 2\n")
	err := (&ParseCmd{File: path}).Run(ctx.Context)
	assert.IsError(t, err, errReported)
	assert.Contains(t, ctx.stderr.String(), "error[E2000]")
	assert.Equal(t, "", ctx.stdout.String())
}

func TestBuildCmd(t *testing.T) {
	ctx := newContext()
	path := writeSource(t, program)
	assert.NoError(t, (&BuildCmd{File: path}).Run(ctx.Context))
	out := ctx.stdout.String()
	assert.Contains(t, out, "function main {\n")
	assert.Contains(t, out, "ss0 = explicit_slot 16\n")
	assert.Contains(t, out, "bint.i64")
	assert.Contains(t, out, "stack_addr.i64 ss0+0\n")

	ctx = newContext()
	ctx.Config.Target.PointerBits = 32
	output := filepath.Join(t.TempDir(), "out.ir")
	assert.NoError(t, (&BuildCmd{File: path, Output: output}).Run(ctx.Context))
	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "stack_addr.i32 ss0+0\n")
}

func TestCheckCmd(t *testing.T) {
	ctx := newContext()
	assert.NoError(t, (&CheckCmd{File: writeSource(t, program)}).Run(ctx.Context))
	assert.Contains(t, ctx.stdout.String(), "ok ")

	ctx = newContext()
	err := (&CheckCmd{File: writeSource(t, "function main()\n  return y\nendfunction\n")}).Run(ctx.Context)
	assert.IsError(t, err, errReported)
	assert.Contains(t, ctx.stderr.String(), "error[E3003]")
	assert.Contains(t, ctx.stderr.String(), " --> ")
	assert.Contains(t, ctx.stderr.String(), "t.block:2:10\n")
}

func TestCheckCmdJSONDiagnostics(t *testing.T) {
	ctx := newContext()
	ctx.Config.Output.Format = "json"
	err := (&CheckCmd{File: writeSource(t, "function main()\n  return y\nendfunction\n")}).Run(ctx.Context)
	assert.IsError(t, err, errReported)

	var out struct {
		Diagnostics []struct {
			Code   string `json:"code"`
			Labels []struct {
				Start struct {
					Line   int `json:"line"`
					Column int `json:"column"`
				} `json:"start"`
			} `json:"labels"`
		} `json:"diagnostics"`
	}
	assert.NoError(t, json.Unmarshal(ctx.stdout.Bytes(), &out))
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, "E3003", out.Diagnostics[0].Code)
	assert.Equal(t, 1, out.Diagnostics[0].Labels[0].Start.Line)
	assert.Equal(t, 9, out.Diagnostics[0].Labels[0].Start.Column)
}

func TestVersionCmd(t *testing.T) {
	ctx := newContext()
	assert.NoError(t, (&VersionCmd{}).Run(ctx.Context))
	assert.Equal(t, "block v"+version+"\n", ctx.stdout.String())
}
