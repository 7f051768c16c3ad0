package options

import (
	"fmt"
	"reflect"
	"slices"
)

// Layout is the visible field structure a table must match: the visible
// fields of a struct, or those of every variant of an enum. It is what the
// inspector walks at runtime, so a table checked against it addresses the
// same fields the inspector does.
type Layout struct {
	owner    reflect.Type
	enum     bool
	variants [][]reflect.StructField
}

// StructLayout returns the layout of struct type t.
func StructLayout(t reflect.Type) Layout {
	return Layout{owner: t, variants: [][]reflect.StructField{VisibleFields(t)}}
}

// EnumLayout returns the layout of enum owner whose variants are the given
// types in declaration order. Pointer variants are dereferenced; non-struct
// variants have no fields.
func EnumLayout(owner reflect.Type, variants ...reflect.Type) Layout {
	l := Layout{owner: owner, enum: true, variants: make([][]reflect.StructField, len(variants))}

	for i, v := range variants {
		l.variants[i] = VisibleFields(v)
	}

	return l
}

// VariantOf returns the type of variant V for NewBuilderFor.
func VariantOf[V any]() reflect.Type {
	return reflect.TypeFor[V]()
}

// Field returns the struct field addressed by target.
func (l Layout) Field(target Target) (reflect.StructField, bool) {
	v := 0
	if l.enum {
		if target.Kind != TargetVariantField {
			return reflect.StructField{}, false
		}

		v = target.Variant
	} else if target.Kind != TargetField {
		return reflect.StructField{}, false
	}

	if v < 0 || v >= len(l.variants) || target.Index < 0 || target.Index >= len(l.variants[v]) {
		return reflect.StructField{}, false
	}

	return l.variants[v][target.Index], true
}

// Targets returns every address of the layout, in table order.
func (l Layout) Targets() []Target {
	var out []Target

	for v, fields := range l.variants {
		for i := range fields {
			if l.enum {
				out = append(out, VariantField(v, i))
			} else {
				out = append(out, Field(i))
			}
		}
	}

	return out
}

// check verifies that spec describes the field at target. An empty name is
// not compared.
func (l Layout) check(target Target, name string, spec Spec) error {
	f, ok := l.Field(target)
	if !ok {
		return fmt.Errorf("%w: %s has no visible field at %s", ErrLayoutMismatch, typeName(l.owner), target)
	}

	if name != "" && f.Name != name {
		return fmt.Errorf("%w: %s is %s.%s, not %s", ErrLayoutMismatch, target, typeName(l.owner), f.Name, name)
	}

	if spec.typ != f.Type {
		return fmt.Errorf("%w: %s.%s has type %s, not %s", ErrLayoutMismatch, typeName(l.owner), f.Name, typeName(f.Type), typeName(spec.typ))
	}

	return nil
}

// missing returns the layout targets absent from index, sorted.
func (l Layout) missing(index map[Target]int) []Target {
	var out []Target

	for _, t := range l.Targets() {
		if _, ok := index[t]; !ok {
			out = append(out, t)
		}
	}

	slices.SortFunc(out, func(a, b Target) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}

		return 0
	})

	return out
}
