package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"block-lang/internal/token"
)

func ident(name string) *IdentExpr { return &IdentExpr{Name: name} }
func num(v int64) *IntLiteral      { return &IntLiteral{Value: v} }

func TestPrintExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"Unary", &UnaryExpr{Op: token.MINUS, Operand: num(5)}, "(-5)"},
		{"Binary", &BinaryExpr{Op: token.PLUS, Left: ident("a"), Right: ident("b")}, "(a + b)"},
		{"Nested", &BinaryExpr{
			Op:    token.STAR,
			Left:  &BinaryExpr{Op: token.MINUS, Left: num(1), Right: num(2)},
			Right: &UnaryExpr{Op: token.BANG, Operand: &BoolLiteral{Value: false}},
		}, "((1 - 2) * (!False))"},
		{"Call", &CallExpr{Callee: ident("f"), Args: []Expr{num(1), ident("x")}}, "f(1, x)"},
		{"EmptyCall", &CallExpr{Callee: ident("f")}, "f()"},
		{"Field", &FieldExpr{Object: &CallExpr{Callee: ident("p")}, Field: "x"}, "p().x"},
		{"Constructor", &ConstructorExpr{Record: "Point", Fields: []FieldInit{
			{Name: "x", Value: num(1)},
			{Name: "y", Value: &StringLiteral{Value: "up"}},
		}}, `Point {x: 1, y: "up"}`},
		{"EmptyConstructor", &ConstructorExpr{Record: "Unit"}, "Unit {}"},
		{"List", &ListLiteral{Elements: []Expr{num(1), &ListLiteral{}}}, "[1, []]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Print(test.expr))
		})
	}
}

func TestPrintStatements(t *testing.T) {
	file := &File{Body: []Stmt{
		&RecordDecl{Name: "Pair", Fields: []RecordField{{Name: "a", Type: "Int"}, {Name: "b", Type: "Bool"}}},
		&FuncDecl{Name: "main", Params: []string{"n", "m"}, Body: []Stmt{
			&ForStmt{Var: "i", From: num(0), To: ident("n"), Body: []Stmt{
				&IfStmt{
					Condition: &BinaryExpr{Op: token.LT, Left: ident("i"), Right: ident("m")},
					Then:      []Stmt{&ExprStmt{Expr: &CallExpr{Callee: ident("f")}}},
					Else:      []Stmt{},
				},
			}},
			&WhileStmt{Condition: &BoolLiteral{Value: true}, Body: []Stmt{&ReturnStmt{}}},
			&AssignStmt{Name: "x", Value: num(3)},
			&ReturnStmt{Value: ident("x")},
		}},
	}}

	want := `record Pair
  a of Int
  b of Bool
endrecord
function main(n, m)
  for i = 0 to n
    if (i < m) then
      f()
    else
    endif
  next i
  while True
    return
  endwhile
  x = 3
  return x
endfunction
`
	assert.Equal(t, want, Print(file))
}

func TestPrintIndentStep(t *testing.T) {
	stmt := &WhileStmt{Condition: ident("c"), Body: []Stmt{&ExprStmt{Expr: ident("x")}}}
	p := &Printer{IndentStep: 4}
	assert.Equal(t, "while c\n    x\nendwhile\n", p.Print(stmt))
}

func TestPrintIfWithoutElse(t *testing.T) {
	stmt := &IfStmt{Condition: ident("c"), Then: []Stmt{}}
	assert.Equal(t, "if c then\nendif\n", Print(stmt))
}

func TestEqualIgnoresSpansAndIDs(t *testing.T) {
	a := &ExprStmt{Expr: &IdentExpr{ExprBase: ExprBase{ExprID: 1}, Name: "x"}}
	b := &ExprStmt{Expr: &IdentExpr{ExprBase: ExprBase{ExprID: 7}, Name: "x"}}
	b.Span.End.Index = 10
	assert.True(t, Equal(a, b))

	c := &ExprStmt{Expr: ident("y")}
	assert.False(t, Equal(a, c))

	withElse := &IfStmt{Condition: ident("c"), Then: []Stmt{}, Else: []Stmt{}}
	withoutElse := &IfStmt{Condition: ident("c"), Then: []Stmt{}}
	assert.False(t, Equal(withElse, withoutElse))
}
