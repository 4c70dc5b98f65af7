package codegen

import "block-lang/internal/ir"

// Backend is the instruction emission interface the compiler drives. *ir.Function
// implements it.
type Backend interface {
	CreateStackSlot(size int) ir.StackSlot
	StackStore(v ir.Value, slot ir.StackSlot, offset int)
	StackAddr(t ir.Type, slot ir.StackSlot, offset int) ir.Value
	BoolToInt(t ir.Type, v ir.Value) ir.Value
	PointerType() ir.Type
	ValueType(v ir.Value) ir.Type

	IConst(t ir.Type, imm int64) ir.Value
	BConst(b bool) ir.Value
	Binary(op ir.Opcode, a, b ir.Value) ir.Value
	Compare(cond ir.CondCode, a, b ir.Value) ir.Value
	Neg(v ir.Value) ir.Value
	Not(v ir.Value) ir.Value
	Return(vals ...ir.Value)

	// Mark and Rollback let a failed expression withdraw what it emitted.
	Mark() ir.Mark
	Rollback(m ir.Mark)
}

var _ Backend = (*ir.Function)(nil)
