package ast

import (
	"reflect"

	"block-lang/internal/span"
	"block-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	return (&mapper{spans: true}).node(node)
}

// Shape is NodeToMap without spans and expression IDs. Two trees with equal shapes are
// the same program.
func Shape(node Node) map[string]interface{} {
	return (&mapper{}).node(node)
}

// Equal reports whether two trees are structurally equal, ignoring source spans and
// expression IDs.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(Shape(a), Shape(b))
}

type mapper struct {
	spans bool
}

func (mp *mapper) node(node Node) map[string]interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return mp.m("File", n.Span, "body", mp.stmts(n.Body))

	// ---- Expressions ----
	case *IdentExpr:
		return mp.e(n, "IdentExpr", "name", n.Name)
	case *IntLiteral:
		return mp.e(n, "IntLiteral", "value", n.Value)
	case *BoolLiteral:
		return mp.e(n, "BoolLiteral", "value", n.Value)
	case *StringLiteral:
		return mp.e(n, "StringLiteral", "value", n.Value)
	case *UnaryExpr:
		return mp.e(n, "UnaryExpr", "op", opStr(n.Op), "operand", mp.node(n.Operand))
	case *BinaryExpr:
		return mp.e(n, "BinaryExpr",
			"op", opStr(n.Op),
			"left", mp.node(n.Left),
			"right", mp.node(n.Right))
	case *CallExpr:
		return mp.e(n, "CallExpr",
			"callee", mp.node(n.Callee),
			"args", mp.exprs(n.Args))
	case *FieldExpr:
		return mp.e(n, "FieldExpr",
			"object", mp.node(n.Object),
			"field", n.Field)
	case *ConstructorExpr:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = mp.m("FieldInit", f.Span, "name", f.Name, "value", mp.node(f.Value))
		}
		return mp.e(n, "ConstructorExpr", "record", n.Record, "fields", fields)
	case *ListLiteral:
		return mp.e(n, "ListLiteral", "elements", mp.exprs(n.Elements))

	// ---- Statements ----
	case *ExprStmt:
		return mp.m("ExprStmt", n.Span, "expr", mp.node(n.Expr))
	case *AssignStmt:
		return mp.m("AssignStmt", n.Span, "name", n.Name, "value", mp.node(n.Value))
	case *ReturnStmt:
		result := mp.m("ReturnStmt", n.Span)
		if n.Value != nil {
			result["value"] = mp.node(n.Value)
		}
		return result
	case *WhileStmt:
		return mp.m("WhileStmt", n.Span,
			"condition", mp.node(n.Condition),
			"body", mp.stmts(n.Body))
	case *ForStmt:
		return mp.m("ForStmt", n.Span,
			"var", n.Var,
			"from", mp.node(n.From),
			"to", mp.node(n.To),
			"body", mp.stmts(n.Body))
	case *IfStmt:
		result := mp.m("IfStmt", n.Span,
			"condition", mp.node(n.Condition),
			"then", mp.stmts(n.Then))
		if n.Else != nil {
			result["else"] = mp.stmts(n.Else)
		}
		return result

	// ---- Declarations ----
	case *FuncDecl:
		return mp.m("FuncDecl", n.Span,
			"name", n.Name,
			"params", strSlice(n.Params),
			"body", mp.stmts(n.Body))
	case *RecordDecl:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = mp.m("RecordField", f.Span, "name", f.Name, "type", f.Type)
		}
		return mp.m("RecordDecl", n.Span, "name", n.Name, "fields", fields)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

func isNil(node Node) bool {
	if node == nil {
		return true
	}
	v := reflect.ValueOf(node)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// m builds a map with kind, span, and extra key-value pairs.
func (mp *mapper) m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{"kind": kind}
	if mp.spans {
		result["span"] = spanToMap(s)
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

// e is m for expressions, which also carry their ID.
func (mp *mapper) e(n Expr, kind string, kvs ...interface{}) map[string]interface{} {
	result := mp.m(kind, n.GetSpan(), kvs...)
	if mp.spans {
		result["id"] = uint32(n.ID())
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"index":  s.Start.Index,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"index":  s.End.Index,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func (mp *mapper) stmts(nodes []Stmt) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = mp.node(n)
	}
	return result
}

func (mp *mapper) exprs(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = mp.node(e)
	}
	return result
}

func strSlice(ss []string) []interface{} {
	result := make([]interface{}, len(ss))
	for i, s := range ss {
		result[i] = s
	}
	return result
}

func opStr(kind token.Kind) string {
	return kind.String()
}
