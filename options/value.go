package options

import (
	"fmt"
	"reflect"
)

// Value is a type-erased options record tagged with its concrete type.
type Value struct {
	typ reflect.Type
	v   any
}

// Empty is the options record of types that accept no options.
type Empty struct{}

// NewValue wraps v. The tag is the static type T, not the dynamic type of v.
func NewValue[T any](v T) Value {
	return Value{typ: reflect.TypeFor[T](), v: v}
}

// Downcast recovers the typed record. It reports false when the stored
// record is not exactly T.
func Downcast[T any](v Value) (T, bool) {
	var zero T

	if v.typ != reflect.TypeFor[T]() {
		return zero, false
	}

	out, ok := v.v.(T)
	if !ok {
		return zero, false
	}

	return out, true
}

// Type returns the concrete record type, nil for the zero Value.
func (v Value) Type() reflect.Type {
	return v.typ
}

// Interface returns the stored record.
func (v Value) Interface() any {
	return v.v
}

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool {
	return v.typ == nil
}

// IsEmpty reports whether v holds the Empty record.
func (v Value) IsEmpty() bool {
	return v.typ == emptyType
}

func (v Value) String() string {
	if v.typ == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s%+v", v.typ, v.v)
}

var emptyType = reflect.TypeFor[Empty]()

// valueOf wraps a reflect.Value whose type is the record type.
func valueOf(rv reflect.Value) Value {
	return Value{typ: rv.Type(), v: rv.Interface()}
}
