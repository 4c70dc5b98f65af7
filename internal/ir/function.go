package ir

import (
	"fmt"
	"strings"
)

// Function accumulates the instructions of one function.
type Function struct {
	Name    string
	Slots   []int // stack slot sizes in bytes, indexed by StackSlot
	Insts   []Inst
	pointer Type
	types   []Type // indexed by Value
}

// NewFunction starts an empty function for a target whose pointers are pointer wide.
func NewFunction(name string, pointer Type) *Function {
	return &Function{Name: name, pointer: pointer}
}

func (f *Function) emit(inst Inst) Value {
	if inst.HasResult() {
		inst.Result = Value(len(f.types))
		f.types = append(f.types, inst.Type)
	}
	f.Insts = append(f.Insts, inst)
	return inst.Result
}

// PointerType returns the target's pointer sized integer type.
func (f *Function) PointerType() Type { return f.pointer }

// ValueType returns the type of v. Values the function did not define have no type.
func (f *Function) ValueType(v Value) Type {
	if int(v) < 0 || int(v) >= len(f.types) {
		return Invalid
	}
	return f.types[v]
}

// Mark records how far the function has been built.
type Mark struct {
	slots, insts, values int
}

// Mark returns the current extent of the function, for a later Rollback.
func (f *Function) Mark() Mark {
	return Mark{slots: len(f.Slots), insts: len(f.Insts), values: len(f.types)}
}

// Rollback discards every slot, instruction and value created since m was taken.
func (f *Function) Rollback(m Mark) {
	f.Slots = f.Slots[:min(m.slots, len(f.Slots))]
	f.Insts = f.Insts[:min(m.insts, len(f.Insts))]
	f.types = f.types[:min(m.values, len(f.types))]
}

// CreateStackSlot reserves size bytes of stack.
func (f *Function) CreateStackSlot(size int) StackSlot {
	f.Slots = append(f.Slots, size)
	return StackSlot(len(f.Slots) - 1)
}

// StackStore writes v to slot at offset bytes from its start.
func (f *Function) StackStore(v Value, slot StackSlot, offset int) {
	f.emit(Inst{Op: OpStackStore, Args: []Value{v}, Slot: slot, Offset: offset})
}

// StackAddr returns the address of slot plus offset as a value of type t.
func (f *Function) StackAddr(t Type, slot StackSlot, offset int) Value {
	return f.emit(Inst{Op: OpStackAddr, Type: t, Slot: slot, Offset: offset})
}

// BoolToInt widens the boolean v to the integer type t: 1 for true, 0 for false.
func (f *Function) BoolToInt(t Type, v Value) Value {
	return f.emit(Inst{Op: OpBint, Type: t, Args: []Value{v}})
}

// IConst materialises an integer constant.
func (f *Function) IConst(t Type, imm int64) Value {
	return f.emit(Inst{Op: OpIconst, Type: t, Imm: imm})
}

// BConst materialises a boolean constant.
func (f *Function) BConst(b bool) Value {
	var imm int64
	if b {
		imm = 1
	}
	return f.emit(Inst{Op: OpBconst, Type: B1, Imm: imm})
}

// Binary applies an integer arithmetic opcode to a and b.
func (f *Function) Binary(op Opcode, a, b Value) Value {
	return f.emit(Inst{Op: op, Type: f.ValueType(a), Args: []Value{a, b}})
}

// Compare compares two integers and yields a boolean.
func (f *Function) Compare(cond CondCode, a, b Value) Value {
	return f.emit(Inst{Op: OpIcmp, Type: B1, Cond: cond, Args: []Value{a, b}})
}

// Neg negates an integer.
func (f *Function) Neg(v Value) Value {
	return f.emit(Inst{Op: OpIneg, Type: f.ValueType(v), Args: []Value{v}})
}

// Not inverts a boolean.
func (f *Function) Not(v Value) Value {
	return f.emit(Inst{Op: OpBnot, Type: B1, Args: []Value{v}})
}

// Return ends the function, optionally with values.
func (f *Function) Return(vals ...Value) {
	f.emit(Inst{Op: OpReturn, Args: vals})
}

func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s {\n", f.Name)
	for i, size := range f.Slots {
		fmt.Fprintf(&sb, "    %s = explicit_slot %d\n", StackSlot(i), size)
	}
	if len(f.Slots) > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString("block0:\n")
	for _, inst := range f.Insts {
		fmt.Fprintf(&sb, "    %s\n", inst)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Module is the output of compiling a file.
type Module struct {
	Pointer   Type
	Functions []*Function
}

// NewModule returns an empty module for a target with pointer wide pointers.
func NewModule(pointer Type) *Module {
	return &Module{Pointer: pointer}
}

// Function adds and returns a new function.
func (m *Module) Function(name string) *Function {
	fn := NewFunction(name, m.Pointer)
	m.Functions = append(m.Functions, fn)
	return fn
}

func (m *Module) String() string {
	parts := make([]string, len(m.Functions))
	for i, fn := range m.Functions {
		parts[i] = fn.String()
	}
	return strings.Join(parts, "\n")
}
