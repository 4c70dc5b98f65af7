package types

import (
	"block-lang/internal/ast"
	"block-lang/internal/token"
)

// Named returns the built-in type spelled name in a declaration.
func Named(name string) (Type, bool) {
	switch name {
	case "Int":
		return Int, true
	case "Bool":
		return Bool, true
	case "String":
		return String, true
	case "Unit":
		return Unit, true
	case "List":
		return List, true
	default:
		return Type{}, false
	}
}

// Annotate assigns types to the expressions of file whose type follows from their form:
// literals, operators over typed operands, constructors and field accesses of declared
// records, and names assigned earlier in the same body. Everything else, parameters and
// calls included, is left without a type.
func Annotate(file *ast.File) *Table {
	a := &annotator{table: NewTable(), records: make(map[string]*ast.RecordDecl)}
	for _, s := range file.Body {
		if r, ok := s.(*ast.RecordDecl); ok {
			a.records[r.Name] = r
		}
	}
	a.body(file.Body, make(map[string]Type))
	return a.table
}

type annotator struct {
	table   *Table
	records map[string]*ast.RecordDecl
}

func (a *annotator) named(name string) (Type, bool) {
	if t, ok := Named(name); ok {
		return t, true
	}
	if _, ok := a.records[name]; ok {
		return Record(name), true
	}
	return Type{}, false
}

func (a *annotator) body(stmts []ast.Stmt, names map[string]Type) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.ExprStmt:
			a.expr(n.Expr, names)
		case *ast.AssignStmt:
			if t, ok := a.expr(n.Value, names); ok {
				names[n.Name] = t
			} else {
				delete(names, n.Name)
			}
		case *ast.ReturnStmt:
			if n.Value != nil {
				a.expr(n.Value, names)
			}
		case *ast.WhileStmt:
			a.expr(n.Condition, names)
			a.body(n.Body, names)
		case *ast.ForStmt:
			from, fok := a.expr(n.From, names)
			to, tok := a.expr(n.To, names)
			if fok && tok && from == Int && to == Int {
				names[n.Var] = Int
			} else {
				delete(names, n.Var)
			}
			a.body(n.Body, names)
		case *ast.IfStmt:
			a.expr(n.Condition, names)
			a.body(n.Then, names)
			a.body(n.Else, names)
		case *ast.FuncDecl:
			a.body(n.Body, make(map[string]Type))
		}
	}
}

func (a *annotator) expr(e ast.Expr, names map[string]Type) (Type, bool) {
	var (
		t  Type
		ok bool
	)
	switch n := e.(type) {
	case *ast.IntLiteral:
		t, ok = Int, true
	case *ast.BoolLiteral:
		t, ok = Bool, true
	case *ast.StringLiteral:
		t, ok = String, true
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			a.expr(el, names)
		}
		t, ok = List, true
	case *ast.IdentExpr:
		t, ok = names[n.Name]
	case *ast.UnaryExpr:
		operand, known := a.expr(n.Operand, names)
		if n.Op == token.BANG {
			t, ok = Bool, known && operand == Bool
		} else {
			t, ok = Int, known && operand == Int
		}
	case *ast.BinaryExpr:
		left, lok := a.expr(n.Left, names)
		right, rok := a.expr(n.Right, names)
		if lok && rok && left == right {
			switch {
			case n.Op.IsComparison():
				// Booleans only compare for equality.
				equality := n.Op == token.EQ || n.Op == token.NEQ
				t, ok = Bool, left == Int || (left == Bool && equality)
			case left == Int:
				t, ok = Int, true
			}
		}
	case *ast.ConstructorExpr:
		for _, f := range n.Fields {
			a.expr(f.Value, names)
		}
		if _, declared := a.records[n.Record]; declared {
			t, ok = Record(n.Record), true
		}
	case *ast.FieldExpr:
		object, known := a.expr(n.Object, names)
		if known && object.Kind == KindRecord {
			for _, f := range a.records[object.Name].Fields {
				if f.Name == n.Field {
					t, ok = a.named(f.Type)
				}
			}
		}
	case *ast.CallExpr:
		a.expr(n.Callee, names)
		for _, arg := range n.Args {
			a.expr(arg, names)
		}
	}
	if ok {
		a.table.Set(e.ID(), t)
	}
	return t, ok
}
