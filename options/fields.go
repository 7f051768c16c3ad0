package options

import (
	"reflect"

	"inspector-options/internal/attr"
	"inspector-options/internal/resolve"
)

// VisibleFields returns the fields of struct type t that get a reflected
// index, in declaration order: exported, not blank, and not tagged
// `inspector:"ignore"`. The position in the result is the reflected index.
// Non-struct types have no visible fields.
func VisibleFields(t reflect.Type) []reflect.StructField {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	all := make([]reflect.StructField, t.NumField())
	for i := range all {
		all[i] = t.Field(i)
	}

	slots := resolve.Visible(all, IgnoredField)

	out := make([]reflect.StructField, len(slots))
	for i, s := range slots {
		out[i] = s.Field
	}

	return out
}

// IgnoredField reports whether f is hidden from the inspector.
func IgnoredField(f reflect.StructField) bool {
	if !f.IsExported() || f.Name == "_" {
		return true
	}

	return attr.HasFlag(f.Tag.Get(attr.TagKey), attr.KeyIgnore)
}

// FieldIndex returns the reflected index of the struct field with the given
// name, or false when it is missing or not visible.
func FieldIndex(t reflect.Type, name string) (int, bool) {
	for i, f := range VisibleFields(t) {
		if f.Name == name {
			return i, true
		}
	}

	return 0, false
}
