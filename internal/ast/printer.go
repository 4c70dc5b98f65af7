package ast

import (
	"strconv"
	"strings"
)

// DefaultIndentStep is the number of indentation units a nested block adds.
const DefaultIndentStep = 2

// Printer renders trees back to source text. The output is canonical: operator
// applications are fully parenthesised and every block is indented by IndentStep spaces,
// so parsing the output yields a tree equal to the input.
type Printer struct {
	IndentStep int
}

// Print renders node with the default indentation step.
func Print(node Node) string {
	return (&Printer{IndentStep: DefaultIndentStep}).Print(node)
}

// Print renders node. Statements and files end with a newline; expressions do not.
func (p *Printer) Print(node Node) string {
	o := &out{step: p.IndentStep}
	switch n := node.(type) {
	case *File:
		o.stmts(n.Body)
	case Stmt:
		o.stmt(n)
	case Expr:
		o.expr(n)
	}
	return o.b.String()
}

type out struct {
	b     strings.Builder
	step  int
	depth int
}

func (o *out) line(parts ...string) {
	o.b.WriteString(strings.Repeat(" ", o.depth*o.step))
	for _, part := range parts {
		o.b.WriteString(part)
	}
	o.b.WriteByte('\n')
}

func (o *out) block(body []Stmt) {
	o.depth++
	o.stmts(body)
	o.depth--
}

func (o *out) stmts(body []Stmt) {
	for _, s := range body {
		o.stmt(s)
	}
}

func (o *out) stmt(s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		o.line(exprString(n.Expr))
	case *AssignStmt:
		o.line(n.Name, " = ", exprString(n.Value))
	case *ReturnStmt:
		if n.Value == nil {
			o.line("return")
		} else {
			o.line("return ", exprString(n.Value))
		}
	case *WhileStmt:
		o.line("while ", exprString(n.Condition))
		o.block(n.Body)
		o.line("endwhile")
	case *ForStmt:
		o.line("for ", n.Var, " = ", exprString(n.From), " to ", exprString(n.To))
		o.block(n.Body)
		o.line("next ", n.Var)
	case *IfStmt:
		o.line("if ", exprString(n.Condition), " then")
		o.block(n.Then)
		if n.Else != nil {
			o.line("else")
			o.block(n.Else)
		}
		o.line("endif")
	case *FuncDecl:
		o.line("function ", n.Name, "(", strings.Join(n.Params, ", "), ")")
		o.block(n.Body)
		o.line("endfunction")
	case *RecordDecl:
		o.line("record ", n.Name)
		o.depth++
		for _, f := range n.Fields {
			o.line(f.Name, " of ", f.Type)
		}
		o.depth--
		o.line("endrecord")
	}
}

func (o *out) expr(e Expr) {
	o.b.WriteString(exprString(e))
}

func exprString(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *IdentExpr:
		sb.WriteString(n.Name)
	case *IntLiteral:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *BoolLiteral:
		if n.Value {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case *StringLiteral:
		sb.WriteByte('"')
		sb.WriteString(n.Value)
		sb.WriteByte('"')
	case *UnaryExpr:
		sb.WriteByte('(')
		sb.WriteString(n.Op.String())
		writeExpr(sb, n.Operand)
		sb.WriteByte(')')
	case *BinaryExpr:
		sb.WriteByte('(')
		writeExpr(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		writeExpr(sb, n.Right)
		sb.WriteByte(')')
	case *CallExpr:
		writeExpr(sb, n.Callee)
		sb.WriteByte('(')
		writeList(sb, n.Args)
		sb.WriteByte(')')
	case *FieldExpr:
		writeExpr(sb, n.Object)
		sb.WriteByte('.')
		sb.WriteString(n.Field)
	case *ConstructorExpr:
		sb.WriteString(n.Record)
		sb.WriteString(" {")
		for i, f := range n.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			writeExpr(sb, f.Value)
		}
		sb.WriteByte('}')
	case *ListLiteral:
		sb.WriteByte('[')
		writeList(sb, n.Elements)
		sb.WriteByte(']')
	}
}

func writeList(sb *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpr(sb, e)
	}
}
