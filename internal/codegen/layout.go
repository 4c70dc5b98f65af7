package codegen

import (
	"fmt"

	"block-lang/internal/ast"
	"block-lang/internal/types"
)

// SizeOf returns how many bytes a value of type t occupies inside a record. Both integers
// and booleans take a full machine word; booleans are widened when stored.
func SizeOf(t types.Type) (int, error) {
	switch t.Kind {
	case types.KindInt, types.KindBool:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// ComputeLayout places fields of the given sizes one after another without padding. It
// returns each field's byte offset and the total size.
func ComputeLayout(sizes []int) (offsets []int, size int) {
	offsets = make([]int, len(sizes))
	for i, s := range sizes {
		offsets[i] = size
		size += s
	}
	return offsets, size
}

// FieldLayout is where one field of a record lives.
type FieldLayout struct {
	Name   string
	Type   types.Type
	Offset int
	Size   int
}

// Layout is the memory layout of a record declaration.
type Layout struct {
	Record string
	Fields []FieldLayout
	Size   int
}

// LayoutOf computes the layout of a declared record in declaration order.
func LayoutOf(decl *ast.RecordDecl) (Layout, error) {
	layout := Layout{Record: decl.Name}
	sizes := make([]int, len(decl.Fields))
	fieldTypes := make([]types.Type, len(decl.Fields))
	for i, f := range decl.Fields {
		t, ok := types.Named(f.Type)
		if !ok {
			t = types.Record(f.Type)
		}
		size, err := SizeOf(t)
		if err != nil {
			return Layout{}, newError(KindUnsupportedType, f.Span,
				"field `%s` of record `%s` has type %s, which has no size", f.Name, decl.Name, t)
		}
		sizes[i] = size
		fieldTypes[i] = t
	}
	offsets, size := ComputeLayout(sizes)
	for i, f := range decl.Fields {
		layout.Fields = append(layout.Fields, FieldLayout{Name: f.Name, Type: fieldTypes[i], Offset: offsets[i], Size: sizes[i]})
	}
	layout.Size = size
	return layout, nil
}
