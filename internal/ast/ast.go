// Package ast defines the syntax tree for block-lang.
package ast

import (
	"block-lang/internal/span"
	"block-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
	ID() ExprID
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ExprID identifies an expression within one parse. Type environments are keyed by it;
// spans are only for humans.
type ExprID uint32

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct {
	NodeBase
	ExprID ExprID
}

func (ExprBase) exprNode()    {}
func (e ExprBase) ID() ExprID { return e.ExprID }

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File represents the entire source file.
type File struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// IdentExpr represents an identifier reference.
type IdentExpr struct {
	ExprBase
	Name string
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// BoolLiteral represents True or False.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// StringLiteral represents a string literal. Strings have no escapes.
type StringLiteral struct {
	ExprBase
	Value string
}

// UnaryExpr represents a prefix operation: -x, +x, !x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// BinaryExpr represents a binary operation: a + b, x == y.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// CallExpr represents a function call: f(a, b).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// FieldExpr represents field access: a.b.
type FieldExpr struct {
	ExprBase
	Object Expr
	Field  string
}

// FieldInit is one `name: value` pair of a constructor.
type FieldInit struct {
	Span  span.Span
	Name  string
	Value Expr
}

// ConstructorExpr represents record construction: Vector { start: 0, len: 0 }.
// Fields keep construction order, which is also layout and evaluation order.
type ConstructorExpr struct {
	ExprBase
	Record string
	Fields []FieldInit
}

// Field returns the value expression for name.
func (c *ConstructorExpr) Field(name string) (Expr, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ListLiteral represents a list literal: [a, b, c].
type ListLiteral struct {
	ExprBase
	Elements []Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// AssignStmt represents an assignment: name = value.
type AssignStmt struct {
	StmtBase
	Name  string
	Value Expr
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	StmtBase
	Value Expr // may be nil
}

// WhileStmt represents a while loop closed by endwhile.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      []Stmt
}

// ForStmt represents: for v = from to to ... next v.
type ForStmt struct {
	StmtBase
	Var  string
	From Expr
	To   Expr
	Body []Stmt
}

// IfStmt represents: if cond then ... [else ...] endif.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil when there is no else branch
}

// ============================================================
// Declarations (also implement Stmt for top-level use)
// ============================================================

// FuncDecl represents a function declaration closed by endfunction.
type FuncDecl struct {
	StmtBase
	Name   string
	Params []string
	Body   []Stmt
}

// RecordField is one `name of Type` line of a record declaration.
type RecordField struct {
	Span span.Span
	Name string
	Type string
}

// RecordDecl represents a record declaration closed by endrecord.
type RecordDecl struct {
	StmtBase
	Name   string
	Fields []RecordField
}
