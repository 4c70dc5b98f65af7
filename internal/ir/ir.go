// Package ir is a small instruction builder that records straight-line machine code per
// function and renders it as text. It plays the role of a real code generator backend for
// the compiler and its tests.
package ir

import (
	"fmt"
	"strings"
)

// Type is a machine value type.
type Type struct {
	name string
	bits int
}

var (
	Invalid = Type{}
	B1      = Type{name: "b1", bits: 1}
	I8      = Type{name: "i8", bits: 8}
	I16     = Type{name: "i16", bits: 16}
	I32     = Type{name: "i32", bits: 32}
	I64     = Type{name: "i64", bits: 64}
)

// IntType returns the integer type with the given width in bits.
func IntType(bits int) (Type, error) {
	switch bits {
	case 8:
		return I8, nil
	case 16:
		return I16, nil
	case 32:
		return I32, nil
	case 64:
		return I64, nil
	default:
		return Invalid, fmt.Errorf("no %d bit integer type", bits)
	}
}

func (t Type) String() string {
	if t.name == "" {
		return "invalid"
	}
	return t.name
}

// Bits returns the width of the type.
func (t Type) Bits() int { return t.bits }

// Bytes returns how many bytes a value of the type occupies in memory.
func (t Type) Bytes() int { return (t.bits + 7) / 8 }

// IsBool reports whether the type is the boolean type.
func (t Type) IsBool() bool { return t == B1 }

// IsInt reports whether the type is an integer type.
func (t Type) IsInt() bool { return t.name != "" && !t.IsBool() }

// Value names the result of an instruction.
type Value int

func (v Value) String() string { return fmt.Sprintf("v%d", int(v)) }

// StackSlot names a fixed size region of the function's stack frame.
type StackSlot int

func (s StackSlot) String() string { return fmt.Sprintf("ss%d", int(s)) }

// Opcode identifies an instruction.
type Opcode string

const (
	OpIconst     Opcode = "iconst"
	OpBconst     Opcode = "bconst"
	OpIadd       Opcode = "iadd"
	OpIsub       Opcode = "isub"
	OpImul       Opcode = "imul"
	OpSdiv       Opcode = "sdiv"
	OpIcmp       Opcode = "icmp"
	OpIneg       Opcode = "ineg"
	OpBnot       Opcode = "bnot"
	OpBint       Opcode = "bint"
	OpStackStore Opcode = "stack_store"
	OpStackAddr  Opcode = "stack_addr"
	OpReturn     Opcode = "return"
)

// CondCode is the comparison an icmp performs.
type CondCode string

const (
	CondEq  CondCode = "eq"
	CondNe  CondCode = "ne"
	CondSlt CondCode = "slt"
	CondSle CondCode = "sle"
	CondSgt CondCode = "sgt"
	CondSge CondCode = "sge"
)

// Inst is one recorded instruction. Which fields matter depends on Op.
type Inst struct {
	Op     Opcode
	Result Value
	Type   Type // result type, or Invalid for instructions without a result
	Args   []Value
	Slot   StackSlot
	Offset int
	Imm    int64
	Cond   CondCode
}

// HasResult reports whether the instruction defines a value.
func (i Inst) HasResult() bool { return i.Type != Invalid }

func (i Inst) String() string {
	var sb strings.Builder
	if i.HasResult() {
		fmt.Fprintf(&sb, "%s = %s.%s", i.Result, i.Op, i.Type)
	} else {
		sb.WriteString(string(i.Op))
	}
	switch i.Op {
	case OpIconst:
		fmt.Fprintf(&sb, " %d", i.Imm)
	case OpBconst:
		fmt.Fprintf(&sb, " %t", i.Imm != 0)
	case OpIcmp:
		fmt.Fprintf(&sb, " %s %s, %s", i.Cond, i.Args[0], i.Args[1])
	case OpStackStore:
		fmt.Fprintf(&sb, " %s, %s%+d", i.Args[0], i.Slot, i.Offset)
	case OpStackAddr:
		fmt.Fprintf(&sb, " %s%+d", i.Slot, i.Offset)
	default:
		for n, arg := range i.Args {
			if n == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
	}
	return sb.String()
}
