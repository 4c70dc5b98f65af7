package parser

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"block-lang/internal/ast"
	"block-lang/internal/span"
	"block-lang/internal/token"
)

// helper: parse source and fail the test on any error
func parseOK(t *testing.T, source string, opts ...Option) *ast.File {
	t.Helper()
	file, err := Parse(source, opts...)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return file
}

// helper: parse source that must fail, and return the error
func parseErr(t *testing.T, source string) *Error {
	t.Helper()
	_, err := Parse(source)
	if err == nil {
		t.Fatalf("expected a parse error for %q", source)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return perr
}

func onlyExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	file := parseOK(t, source)
	assert.Equal(t, 1, len(file.Body))
	stmt, ok := file.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", file.Body[0])
	}
	return stmt.Expr
}

func TestParseBinaryPrecedence(t *testing.T) {
	expr := onlyExpr(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", expr)
	}
	assert.Equal(t, token.PLUS, bin.Op)
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr on the right, got %T", bin.Right)
	}
	assert.Equal(t, token.STAR, right.Op)
}

func TestParseCanonicalForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a - b - c", "((a - b) - c)"},
		{"a < b + 1", "(a < (b + 1))"},
		{"a == b != c", "((a == b) != c)"},
		{"-f(x)", "(-f(x))"},
		{"!a.b", "(!a.b)"},
		{"- - 5", "(-(-5))"},
		{"(a + b) * c", "((a + b) * c)"},
		{"f(1, 2,)(3)", "f(1, 2)(3)"},
		{"f ()", "f()"},
		{"p.x.y", "p.x.y"},
		{"Point{x: 1, y: True}", "Point {x: 1, y: True}"},
		{"Unit { }", "Unit {}"},
		{"[1, [2], []]", "[1, [2], []]"},
		{`"hello world"`, `"hello world"`},
		{"A {}.x", "A {}.x"},
		{"x  \t", "x"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.want, ast.Print(onlyExpr(t, test.input)))
		})
	}
}

func TestParseFunction(t *testing.T) {
	src := "function add(a, b)\n  return a + b\nendfunction\n"
	file := parseOK(t, src)
	assert.Equal(t, 1, len(file.Body))
	fn, ok := file.Body[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", file.Body[0])
	}
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.Equal(t, 1, len(fn.Body))
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body[0])
	}
	assert.NotZero(t, ret.Value)
	assert.Equal(t, 0, fn.Span.Start.Index)
	assert.Equal(t, len(src)-1, fn.Span.End.Index)
}

func TestParseRecord(t *testing.T) {
	file := parseOK(t, "record Point\n  x of Int\n\n  visible of Bool\nendrecord")
	rec, ok := file.Body[0].(*ast.RecordDecl)
	if !ok {
		t.Fatalf("expected RecordDecl, got %T", file.Body[0])
	}
	assert.Equal(t, "Point", rec.Name)
	assert.Equal(t, 2, len(rec.Fields))
	assert.Equal(t, "visible", rec.Fields[1].Name)
	assert.Equal(t, "Bool", rec.Fields[1].Type)
	assert.Equal(t, 3, rec.Fields[1].Span.Start.Line)
}

func TestParseControlFlow(t *testing.T) {
	src := `function main()
  total = 0
  for i = 1 to 10
    if (i < 5) then
      total = (total + i)
    else
      total = (total - 1)
    endif
  next i
  while (total > 0)
    total = (total / 2)
  endwhile
  return
endfunction
`
	file := parseOK(t, src)
	fn := file.Body[0].(*ast.FuncDecl)
	assert.Equal(t, 4, len(fn.Body))

	loop, ok := fn.Body[1].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", fn.Body[1])
	}
	assert.Equal(t, "i", loop.Var)
	ifs := loop.Body[0].(*ast.IfStmt)
	assert.Equal(t, 1, len(ifs.Then))
	assert.Equal(t, 1, len(ifs.Else))

	_, ok = fn.Body[2].(*ast.WhileStmt)
	assert.True(t, ok)
	ret := fn.Body[3].(*ast.ReturnStmt)
	assert.Zero(t, ret.Value)

	// The canonical printer reproduces this already canonical program.
	assert.Equal(t, src, ast.Print(file))
}

func TestParseElseKeepsEmptyBranch(t *testing.T) {
	file := parseOK(t, "if c then\nelse\nendif\n")
	ifs := file.Body[0].(*ast.IfStmt)
	assert.True(t, ifs.Else != nil)
	assert.Equal(t, 0, len(ifs.Else))

	file = parseOK(t, "if c then\nendif\n")
	assert.True(t, file.Body[0].(*ast.IfStmt).Else == nil)
}

func TestParseBlankLinesAndTrailingSpace(t *testing.T) {
	file := parseOK(t, "\n\n  \nwhile x  \n\n    \n  y = 1   \nendwhile   \n\n")
	loop := file.Body[0].(*ast.WhileStmt)
	assert.Equal(t, 1, len(loop.Body))
}

func TestParseIndentStep(t *testing.T) {
	src := "while x\n    y\nendwhile\n"
	file := parseOK(t, src, WithIndentStep(4))
	assert.Equal(t, 1, len(file.Body[0].(*ast.WhileStmt).Body))

	_, err := Parse(src)
	assert.True(t, errors.Is(err, ErrInvalidWhitespace))
}

func TestParseTabsCountFour(t *testing.T) {
	file := parseOK(t, "while x\n\ty\nendwhile\n", WithIndentStep(4))
	assert.Equal(t, 1, len(file.Body[0].(*ast.WhileStmt).Body))
}

func TestParseAssignment(t *testing.T) {
	file := parseOK(t, "x = y == z")
	assign, ok := file.Body[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", file.Body[0])
	}
	assert.Equal(t, "x", assign.Name)
	bin := assign.Value.(*ast.BinaryExpr)
	assert.Equal(t, token.EQ, bin.Op)

	file = parseOK(t, "x == y")
	_, ok = file.Body[0].(*ast.ExprStmt)
	assert.True(t, ok)
}

func TestParseExprIDsAreUnique(t *testing.T) {
	file := parseOK(t, "x = P {a: 1 + 2, b: f(3)}\ny = [x, x]\n")
	seen := map[ast.ExprID]bool{}
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		assert.False(t, seen[e.ID()], "duplicate id %d", e.ID())
		seen[e.ID()] = true
		switch n := e.(type) {
		case *ast.BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *ast.CallExpr:
			walk(n.Callee)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.ConstructorExpr:
			for _, f := range n.Fields {
				walk(f.Value)
			}
		case *ast.ListLiteral:
			for _, el := range n.Elements {
				walk(el)
			}
		}
	}
	for _, s := range file.Body {
		walk(s.(*ast.AssignStmt).Value)
	}
	assert.Equal(t, 10, len(seen))
}

func TestParseSpans(t *testing.T) {
	file := parseOK(t, "x = é + b")
	bin := file.Body[0].(*ast.AssignStmt).Value.(*ast.BinaryExpr)
	assert.Equal(t, span.NewIndex(4, 10), bin.Span.IndexOnly())
	assert.Equal(t, 9, bin.Span.End.Column)
}

func TestParseJSON(t *testing.T) {
	file := parseOK(t, "return -1")
	data, err := json.Marshal(ast.Shape(file))
	assert.NoError(t, err)
	assert.Equal(t,
		`{"body":[{"kind":"ReturnStmt","value":{"kind":"UnaryExpr","op":"-","operand":{"kind":"IntLiteral","value":1}}}],"kind":"File"}`,
		string(data))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		span  span.IndexSpan
	}{
		{"KeywordAsName", "while return True\nendwhile", KindInvalidIdent, span.NewIndex(6, 12)},
		{"IndentTooDeep", " x", KindInvalidWhitespace, span.NewIndex(0, 1)},
		{"UnclosedParen", "f(a, b\n", KindMismatchedBrackets, span.NewIndex(1, 2)},
		{"UnclosedList", "x = [1, 2", KindMismatchedBrackets, span.NewIndex(4, 5)},
		{"DanglingOperator", "z -", KindUnexpectedEndOfInput, span.NewIndex(3, 3)},
		{"DuplicateField", "P {a: 1, a: 2}", KindExprError, span.NewIndex(9, 13)},
		{"IntTooLarge", "x = 9223372036854775808", KindExprError, span.NewIndex(4, 23)},
		{"AssignToCall", "f() = 1", KindExprError, span.NewIndex(0, 3)},
		{"StrayCloser", "endwhile", KindUnexpectedToken, span.NewIndex(0, 8)},
		{"MissingEndwhile", "while x\n  y\n", KindUnexpectedEndOfInput, span.NewIndex(12, 12)},
		{"WrongNext", "for i = 1 to 2\nnext j", KindInvalidIdent, span.NewIndex(20, 21)},
		{"TrailingJunk", "x y", KindUnexpectedToken, span.NewIndex(2, 3)},
		{"UnterminatedString", "x = \"abc\ny", KindUnexpectedToken, span.NewIndex(4, 5)},
		{"BadField", "p.1", KindInvalidIdent, span.NewIndex(2, 3)},
		{"InvalidUTF8", "x = \xff", KindUnexpectedToken, span.NewIndex(4, 5)},
		{"DuplicateParam", "function f(a, a)\nendfunction", KindInvalidIdent, span.NewIndex(14, 15)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := parseErr(t, test.input)
			assert.Equal(t, test.kind, err.Kind, "%v", err)
			assert.Equal(t, test.span, err.Span, "%v", err)
		})
	}
}

func TestParseMismatchedBracketsPointsAtLineEnd(t *testing.T) {
	err := parseErr(t, "x = (1 + 2\ny = 3")
	assert.Equal(t, KindMismatchedBrackets, err.Kind)
	assert.Equal(t, span.NewIndex(4, 5), err.Span)
	assert.NotZero(t, err.ExpectedClosing)
	assert.Equal(t, span.NewIndex(10, 10), *err.ExpectedClosing)
}
