// Package codegen lowers syntax trees to machine instructions: record layout, record
// construction on the stack and straight-line scalar expressions.
package codegen

import (
	"log/slog"

	"block-lang/internal/ast"
	"block-lang/internal/ir"
	"block-lang/internal/token"
	"block-lang/internal/types"
)

// Option configures code generation.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	pointerBits int
}

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler), pointerBits: 64}
}

// WithLogger sets the logger that receives layout and lowering decisions at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPointerBits sets the pointer width of the target.
func WithPointerBits(bits int) Option {
	return func(o *options) {
		o.pointerBits = bits
	}
}

// FunctionCompiler lowers the expressions of one function body into a Backend.
type FunctionCompiler struct {
	b      Backend
	env    types.Env
	locals *scope
	logger *slog.Logger
}

// NewFunctionCompiler returns a compiler that emits into b and asks env for types.
func NewFunctionCompiler(b Backend, env types.Env, opts ...Option) *FunctionCompiler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FunctionCompiler{b: b, env: env, locals: newScope(), logger: o.logger}
}

// Bind makes name refer to v in the rest of the body.
func (fc *FunctionCompiler) Bind(name string, v ir.Value) {
	fc.locals.set(name, v)
}

var arithOps = map[token.Kind]ir.Opcode{
	token.PLUS:  ir.OpIadd,
	token.MINUS: ir.OpIsub,
	token.STAR:  ir.OpImul,
	token.SLASH: ir.OpSdiv,
}

var condCodes = map[token.Kind]ir.CondCode{
	token.EQ:  ir.CondEq,
	token.NEQ: ir.CondNe,
	token.LT:  ir.CondSlt,
	token.LTE: ir.CondSle,
	token.GT:  ir.CondSgt,
	token.GTE: ir.CondSge,
}

// CompileExpr emits the instructions computing e and returns the resulting value.
func (fc *FunctionCompiler) CompileExpr(e ast.Expr) (ir.Value, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return fc.b.IConst(ir.I64, n.Value), nil
	case *ast.BoolLiteral:
		return fc.b.BConst(n.Value), nil
	case *ast.IdentExpr:
		v, ok := fc.locals.get(n.Name)
		if !ok && fc.locals.isParam(n.Name) {
			return 0, newError(KindTypeNotInferred, n.Span,
				"the type of parameter `%s` could not be established", n.Name)
		}
		if !ok {
			return 0, newError(KindUndefinedVariable, n.Span, "`%s` has no value at this point", n.Name)
		}
		return v, nil
	case *ast.UnaryExpr:
		return fc.compileUnary(n)
	case *ast.BinaryExpr:
		return fc.compileBinary(n)
	case *ast.ConstructorExpr:
		return fc.CompileConstructor(n)
	case *ast.StringLiteral:
		return 0, newError(KindUnsupportedExpr, n.Span, "strings cannot be compiled yet")
	case *ast.ListLiteral:
		return 0, newError(KindUnsupportedExpr, n.Span, "lists cannot be compiled yet")
	case *ast.CallExpr:
		return 0, newError(KindUnsupportedExpr, n.Span, "calls cannot be compiled yet")
	case *ast.FieldExpr:
		return 0, newError(KindUnsupportedExpr, n.Span, "field access cannot be compiled yet")
	default:
		return 0, newError(KindUnsupportedExpr, e.GetSpan(), "this expression cannot be compiled")
	}
}

func (fc *FunctionCompiler) compileUnary(n *ast.UnaryExpr) (ir.Value, error) {
	v, err := fc.CompileExpr(n.Operand)
	if err != nil {
		return 0, err
	}
	t := fc.b.ValueType(v)
	switch {
	case n.Op == token.BANG && t.IsBool():
		return fc.b.Not(v), nil
	case n.Op == token.MINUS && t.IsInt():
		return fc.b.Neg(v), nil
	case n.Op == token.PLUS && t.IsInt():
		return v, nil
	}
	return 0, newError(KindUnsupportedExpr, n.Span, "`%s` cannot be applied to a value of type %s", n.Op, t)
}

func (fc *FunctionCompiler) compileBinary(n *ast.BinaryExpr) (ir.Value, error) {
	l, err := fc.CompileExpr(n.Left)
	if err != nil {
		return 0, err
	}
	r, err := fc.CompileExpr(n.Right)
	if err != nil {
		return 0, err
	}
	lt, rt := fc.b.ValueType(l), fc.b.ValueType(r)

	if cond, ok := condCodes[n.Op]; ok {
		if lt.IsBool() && rt.IsBool() && (n.Op == token.EQ || n.Op == token.NEQ) {
			l, r = fc.b.BoolToInt(ir.I64, l), fc.b.BoolToInt(ir.I64, r)
			lt, rt = ir.I64, ir.I64
		}
		if lt.IsInt() && lt == rt {
			return fc.b.Compare(cond, l, r), nil
		}
	} else if op, ok := arithOps[n.Op]; ok && lt.IsInt() && lt == rt {
		return fc.b.Binary(op, l, r), nil
	}
	return 0, newError(KindUnsupportedExpr, n.Span, "`%s` cannot be applied to values of type %s and %s", n.Op, lt, rt)
}
