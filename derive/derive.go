package derive

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"

	"inspector-options/internal/attr"
	"inspector-options/internal/plan"
	"inspector-options/options"
)

// ErrUnsupported is returned for types that cannot derive options.
var ErrUnsupported = errors.New("type cannot derive options")

// TagError reports an invalid inspector tag.
type TagError struct {
	Type  reflect.Type
	Field string
	Diags hcl.Diagnostics
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Field, e.Diags.Error())
}

// Struct builds the options table of struct type T.
func Struct[T any]() (*options.Table, error) {
	return StructOf(reflect.TypeFor[T]())
}

// StructOf builds the options table of struct type t.
func StructOf(t reflect.Type) (*options.Table, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: %w", t, ErrUnsupported)
	}

	b := options.NewLayoutBuilder(options.StructLayout(t))
	if err := insertFields(b, t, options.Field); err != nil {
		return nil, err
	}

	return b.Build()
}

// Enum builds the options table of enum E. variants are values of the
// variant types in declaration order; their dynamic types give the variant
// fields. Variant i is addressed as options.VariantField(i, field).
func Enum[E any](variants ...E) (*options.Table, error) {
	types := make([]reflect.Type, len(variants))

	for i, v := range variants {
		t := reflect.TypeOf(any(v))
		if t == nil {
			return nil, fmt.Errorf("%s: variant %d is nil: %w", reflect.TypeFor[E](), i, ErrUnsupported)
		}

		types[i] = t
	}

	return EnumOf(types...)
}

// EnumOf builds an enum table from the variant types in declaration order.
// Pointer variants are dereferenced; non-struct variants have no fields.
func EnumOf(variants ...reflect.Type) (*options.Table, error) {
	b := options.NewBuilder()

	for i, t := range variants {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		if t.Kind() != reflect.Struct {
			continue
		}

		variant := i
		if err := insertFields(b, t, func(f int) options.Target {
			return options.VariantField(variant, f)
		}); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// Fallback builds tables for struct types by reflection. It fits
// options.WithFallback and Registry.SetFallback.
func Fallback(t reflect.Type) (*options.Table, error) {
	return StructOf(t)
}

// Install makes r derive tables for unregistered struct types.
func Install(r *options.Registry) {
	r.SetFallback(Fallback)
}

// Register registers the reflection builder of T in r.
func Register[T any](r *options.Registry) error {
	return options.Register[T](r, Struct[T])
}

// RegisterEnum registers the enum builder of E over variants in r.
func RegisterEnum[E any](r *options.Registry, variants ...E) error {
	return options.Register[E](r, func() (*options.Table, error) {
		return Enum(variants...)
	})
}

func insertFields(b *options.Builder, t reflect.Type, target func(int) options.Target) error {
	for i, f := range options.VisibleFields(t) {
		settings, err := fieldSettings(t, f)
		if err != nil {
			return err
		}

		b.InsertField(target(i), f.Name, options.ForType(f.Type, settings...))
	}

	return b.Err()
}

func fieldSettings(t reflect.Type, f reflect.StructField) ([]options.Setting, error) {
	tag, ok := f.Tag.Lookup(attr.TagKey)
	if !ok || tag == "" {
		return nil, nil
	}

	_, settings, diags := plan.Parse(tag, t.String()+"."+f.Name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &TagError{Type: t, Field: f.Name, Diags: diags}
	}

	return settings, nil
}
