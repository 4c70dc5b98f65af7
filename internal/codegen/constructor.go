package codegen

import (
	"errors"

	"block-lang/internal/ast"
	"block-lang/internal/ir"
)

// CompileConstructor builds a record value on the stack and returns its address.
//
// Fields are laid out in construction order with no padding: a field's offset is the sum
// of the sizes of the fields before it. Every field type must be known before anything is
// emitted, and a value that fails to compile withdraws the slot and every store made for
// the record. Booleans are widened to the integer width of their slot before being stored.
func (fc *FunctionCompiler) CompileConstructor(con *ast.ConstructorExpr) (ir.Value, error) {
	sizes := make([]int, len(con.Fields))
	for i, f := range con.Fields {
		t, ok := fc.env.TypeOf(f.Value.ID())
		if !ok {
			return 0, newError(KindTypeNotInferred, f.Value.GetSpan(),
				"the type of field `%s` of `%s` could not be inferred", f.Name, con.Record)
		}
		size, err := SizeOf(t)
		if err != nil {
			if errors.Is(err, ErrUnsupportedType) {
				return 0, newError(KindUnsupportedType, f.Value.GetSpan(),
					"field `%s` of `%s` has type %s, which cannot be stored in a record yet", f.Name, con.Record, t)
			}
			return 0, err
		}
		sizes[i] = size
	}

	offsets, size := ComputeLayout(sizes)
	fc.logger.Debug("record layout", "record", con.Record, "size", size, "offsets", offsets)
	mark := fc.b.Mark()
	slot := fc.b.CreateStackSlot(size)

	for i, f := range con.Fields {
		v, err := fc.CompileExpr(f.Value)
		if err != nil {
			fc.b.Rollback(mark)
			return 0, err
		}
		if fc.b.ValueType(v).IsBool() {
			wide, err := ir.IntType(sizes[i] * 8)
			if err != nil {
				fc.b.Rollback(mark)
				return 0, err
			}
			v = fc.b.BoolToInt(wide, v)
		}
		fc.b.StackStore(v, slot, offsets[i])
	}

	return fc.b.StackAddr(fc.b.PointerType(), slot, 0), nil
}
