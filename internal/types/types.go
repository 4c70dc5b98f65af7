// Package types holds the types attached to expressions and the environment the code
// generator asks for them.
package types

import (
	"block-lang/internal/ast"
)

// Kind identifies the shape of a type.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindString
	KindUnit
	KindRecord
	KindList
)

// Type is the type of an expression. Name is only set for records.
type Type struct {
	Kind Kind
	Name string
}

var (
	Int    = Type{Kind: KindInt}
	Bool   = Type{Kind: KindBool}
	String = Type{Kind: KindString}
	Unit   = Type{Kind: KindUnit}
	List   = Type{Kind: KindList}
)

// Record returns the type of values built from the record declaration called name.
func Record(name string) Type {
	return Type{Kind: KindRecord, Name: name}
}

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindUnit:
		return "Unit"
	case KindRecord:
		return t.Name
	case KindList:
		return "List"
	default:
		return "?"
	}
}

// Env answers which type an expression has. A missing answer means the type could not be
// established.
type Env interface {
	TypeOf(id ast.ExprID) (Type, bool)
}

// Table is a map backed Env.
type Table struct {
	types map[ast.ExprID]Type
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{types: make(map[ast.ExprID]Type)}
}

// Set records the type of the expression id.
func (t *Table) Set(id ast.ExprID, typ Type) {
	t.types[id] = typ
}

// TypeOf implements Env.
func (t *Table) TypeOf(id ast.ExprID) (Type, bool) {
	typ, ok := t.types[id]
	return typ, ok
}

// Len returns how many expressions have a type.
func (t *Table) Len() int {
	return len(t.types)
}
