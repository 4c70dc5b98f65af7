package codegen

import (
	"errors"
	"log/slog"

	"block-lang/internal/ast"
	"block-lang/internal/ir"
	"block-lang/internal/span"
	"block-lang/internal/types"
)

// TopLevel is the name of the function holding the statements written outside any
// function. No source name can clash with it.
const TopLevel = "$top"

// Generate lowers every function of file, plus the top-level statements, into a module.
//
// Each statement is compiled on its own: a failing statement is reported and skipped, so
// one call returns every independent error, and leaves no instruction behind. Only
// straight-line bodies are lowered; control flow and nested declarations are reported as
// unsupported. Parameters have no type in env, so each use of one is reported.
func Generate(file *ast.File, env types.Env, opts ...Option) (*ir.Module, []*Error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pointer, err := ir.IntType(o.pointerBits)
	if err != nil {
		o.logger.Warn("unusable pointer width, using 64 bits", "bits", o.pointerBits)
		pointer = ir.I64
	}

	g := &generator{module: ir.NewModule(pointer), env: env, logger: o.logger}
	var top []ast.Stmt
	for _, s := range file.Body {
		switch n := s.(type) {
		case *ast.FuncDecl:
			g.function(n.Name, n.Params, n.Body)
		case *ast.RecordDecl:
			layout, err := LayoutOf(n)
			if err != nil {
				g.report(err, n.Span)
				continue
			}
			g.logger.Debug("record declared", "record", layout.Record, "size", layout.Size)
		default:
			top = append(top, s)
		}
	}
	if len(top) > 0 {
		g.function(TopLevel, nil, top)
	}
	return g.module, g.errs
}

type generator struct {
	module *ir.Module
	env    types.Env
	logger *slog.Logger
	errs   []*Error
}

func (g *generator) report(err error, at span.Span) {
	var cerr *Error
	if !errors.As(err, &cerr) {
		cerr = newError(KindUnsupported, at, "%v", err)
	}
	g.errs = append(g.errs, cerr)
}

func (g *generator) function(name string, params []string, body []ast.Stmt) {
	fn := g.module.Function(name)
	fc := &FunctionCompiler{b: fn, env: g.env, locals: newScope(), logger: g.logger}
	g.logger.Debug("lowering function", "name", name, "statements", len(body))

	for _, p := range params {
		fc.locals.param(p)
	}

	for _, s := range body {
		mark := fn.Mark()
		switch n := s.(type) {
		case *ast.ExprStmt:
			if _, err := fc.CompileExpr(n.Expr); err != nil {
				fn.Rollback(mark)
				g.report(err, n.Span)
			}
		case *ast.AssignStmt:
			v, err := fc.CompileExpr(n.Value)
			if err != nil {
				fn.Rollback(mark)
				g.report(err, n.Span)
				continue
			}
			fc.Bind(n.Name, v)
		case *ast.ReturnStmt:
			if n.Value == nil {
				fn.Return()
				return
			}
			v, err := fc.CompileExpr(n.Value)
			if err != nil {
				fn.Rollback(mark)
				g.report(err, n.Span)
				fn.Return()
				return
			}
			fn.Return(v)
			return
		case *ast.WhileStmt:
			g.errs = append(g.errs, newError(KindUnsupported, n.Span, "`while` loops cannot be compiled yet"))
		case *ast.ForStmt:
			g.errs = append(g.errs, newError(KindUnsupported, n.Span, "`for` loops cannot be compiled yet"))
		case *ast.IfStmt:
			g.errs = append(g.errs, newError(KindUnsupported, n.Span, "`if` statements cannot be compiled yet"))
		default:
			g.errs = append(g.errs, newError(KindUnsupported, s.GetSpan(), "declarations inside functions are not supported"))
		}
	}
	fn.Return()
}
