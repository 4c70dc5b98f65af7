package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"block-lang/internal/diag"
	"block-lang/internal/span"
)

// paint returns a color that is only applied when enabled.
func paint(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// renderer prints diagnostics with the offending source lines underlined:
//
//	error[E2001]: your program contains a syntax error
//	  --> main.block:3:7
//	  |
//	3 |   x = 1 +
//	  |         ^ something's missing here
type renderer struct {
	w      io.Writer
	name   string
	source string
	color  bool
}

func severityColor(s diag.Severity) color.Attribute {
	switch s {
	case diag.Warning:
		return color.FgYellow
	case diag.Bug:
		return color.FgMagenta
	default:
		return color.FgRed
	}
}

func (r *renderer) render(d diag.Diagnostic) {
	fmt.Fprintf(r.w, "%s: %s\n",
		paint(r.color, severityColor(d.Severity), color.Bold).Sprintf("%s[%s]", d.Severity, d.Code),
		paint(r.color, color.Bold).Sprint(d.Message))

	gutter := 1
	for _, l := range d.Labels {
		line := span.Locate(r.source, l.Span.Start).Line + 1
		gutter = max(gutter, len(strconv.Itoa(line)))
	}
	blue := paint(r.color, color.FgBlue, color.Bold)
	bar := blue.Sprint("|")

	if l, ok := d.PrimaryLabel(); ok {
		start := span.Locate(r.source, l.Span.Start)
		fmt.Fprintf(r.w, "%*s%s %s:%d:%d\n", gutter, "", blue.Sprint("-->"), r.name, start.Line+1, start.Column+1)
	}
	for _, l := range d.Labels {
		r.label(l, gutter, bar, severityColor(d.Severity))
	}
	for _, n := range d.Notes {
		fmt.Fprintf(r.w, "%*s %s note: %s\n", gutter, "", blue.Sprint("="), n)
	}
	fmt.Fprintln(r.w)
}

func (r *renderer) label(l diag.Label, gutter int, bar string, primary color.Attribute) {
	s := span.Widen(r.source, l.Span)
	lineStart := s.Start.Index - lineOffset(r.source, s.Start.Index)
	lineEnd := strings.IndexByte(r.source[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(r.source)
	} else {
		lineEnd += lineStart
	}
	text := strings.TrimSuffix(r.source[lineStart:lineEnd], "\r")

	// A span may start on the line break itself, past a trimmed "\r".
	from := min(s.Start.Index-lineStart, len(text))
	to := len(text)
	if s.End.Line == s.Start.Line {
		to = min(s.End.Index-lineStart, len(text))
	}
	to = max(from, to)
	marks := max(1, displayWidth(text[from:to]))

	mark, attr := "^", primary
	if l.Style == diag.Secondary {
		mark, attr = "-", color.FgBlue
	}
	underline := paint(r.color, attr, color.Bold).Sprint(strings.Repeat(mark, marks))
	if l.Message != "" {
		underline += " " + paint(r.color, attr, color.Bold).Sprint(l.Message)
	}

	fmt.Fprintf(r.w, "%*s %s\n", gutter, "", bar)
	fmt.Fprintf(r.w, "%*d %s %s\n", gutter, s.Start.Line+1, bar, text)
	fmt.Fprintf(r.w, "%*s %s %s%s\n", gutter, "", bar, padding(text[:from]), underline)
}

// lineOffset returns how far index is from the start of its line, in bytes.
func lineOffset(source string, index int) int {
	index = min(index, len(source))
	return index - (strings.LastIndexByte(source[:index], '\n') + 1)
}

// padding returns blank space as wide on screen as prefix. Tabs are kept so that the
// terminal expands them the same way on both lines.
func padding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runeWidth(r)))
	}
	return sb.String()
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
