package options

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"inspector-options/internal/attr"
)

// Capability describes an options-capable type: which record its options
// are stored in and how settings become that record.
type Capability interface {
	// Record is the concrete options record type.
	Record() reflect.Type
	// Keys lists the accepted option keys in record order.
	Keys() []string
	// Build converts settings into a record. No settings yields the default
	// record.
	Build(settings []Setting) (Value, error)
}

var capabilities = struct {
	sync.RWMutex
	m map[reflect.Type]Capability
}{m: make(map[reflect.Type]Capability)}

// RegisterCapability makes t options-capable. A later registration for the
// same type replaces the earlier one.
func RegisterCapability(t reflect.Type, c Capability) {
	capabilities.Lock()
	defer capabilities.Unlock()

	capabilities.m[t] = c
}

// CapabilityOf resolves the capability of t. Registered types win, then
// pointers and Optional wrap their element, then slices and arrays forward
// to their element.
func CapabilityOf(t reflect.Type) (Capability, bool) {
	if t == nil {
		return nil, false
	}

	capabilities.RLock()
	c, ok := capabilities.m[t]
	capabilities.RUnlock()

	if ok {
		return c, true
	}

	if elem, ok := optionalElem(t); ok {
		return wrapperCapability{elem: elem}, true
	}

	switch t.Kind() {
	case reflect.Pointer:
		return wrapperCapability{elem: t.Elem()}, true
	case reflect.Slice, reflect.Array:
		if c, ok := CapabilityOf(t.Elem()); ok {
			return c, true
		}
	}

	return nil, false
}

// Capable reports whether t has a capability.
func Capable(t reflect.Type) bool {
	_, ok := CapabilityOf(t)

	return ok
}

// Build converts settings for a value of type t. Capable types delegate to
// their capability. Other types accept either no settings, which yields
// Empty, or only sub-addresses, which yield a nested *Table over the visible
// fields of t.
func Build(t reflect.Type, settings []Setting) (Value, error) {
	if c, ok := CapabilityOf(t); ok {
		return c.Build(settings)
	}

	if len(settings) == 0 {
		return NewValue(Empty{}), nil
	}

	if !hasSub(settings) {
		return Value{}, &UnknownKeyError{Type: t, Key: settings[0].Key}
	}

	return buildNested(t, settings)
}

func buildNested(t reflect.Type, settings []Setting) (Value, error) {
	for _, s := range settings {
		if !s.Sub {
			return Value{}, fmt.Errorf("%s: %w", s.Key, ErrMixedSettings)
		}
	}

	fields := VisibleFields(t)
	ordered := slices.Clone(settings)
	slices.SortStableFunc(ordered, func(a, b Setting) int { return a.Index - b.Index })

	b := NewBuilder()

	for _, s := range ordered {
		if s.Index < 0 || s.Index >= len(fields) {
			return Value{}, &IndexError{Type: t, Index: s.Index, Len: len(fields)}
		}

		b.Insert(Field(s.Index), ForType(fields[s.Index].Type, s.Nested...))
	}

	table, err := b.Build()
	if err != nil {
		return Value{}, err
	}

	return NewValue(table), nil
}

// wrapperCapability handles pointers and Optional. Without settings the
// record is Empty; with settings the element's options are nested at
// VariantField(1, 0), the payload of the present state.
type wrapperCapability struct {
	elem reflect.Type
}

func (w wrapperCapability) Record() reflect.Type {
	return reflect.TypeFor[*Table]()
}

func (w wrapperCapability) Keys() []string {
	if c, ok := CapabilityOf(w.elem); ok {
		return c.Keys()
	}

	return nil
}

func (w wrapperCapability) Build(settings []Setting) (Value, error) {
	if len(settings) == 0 {
		return NewValue(Empty{}), nil
	}

	inner, err := Build(w.elem, settings)
	if err != nil {
		return Value{}, err
	}

	table, err := NewBuilder().Put(VariantField(1, 0), inner, Decoration{}).Build()
	if err != nil {
		return Value{}, err
	}

	return NewValue(table), nil
}

type optionalType interface {
	optionalElem() reflect.Type
}

func optionalElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	o, ok := reflect.Zero(t).Interface().(optionalType)
	if !ok {
		return nil, false
	}

	return o.optionalElem(), true
}

// RecordOf returns a capability storing options in R. Keys are the
// inspector tag names of R's exported fields, or their lowercased names.
// def is the record produced for empty settings.
func RecordOf[R any](def R) Capability {
	t := reflect.TypeFor[R]()
	c := &recordCapability{record: t, def: reflect.ValueOf(&def).Elem(), fields: map[string]int{}}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		key := strings.ToLower(f.Name)
		if tag, ok := f.Tag.Lookup(attr.TagKey); ok {
			if tag == "-" {
				continue
			}

			key = tag
		}

		c.fields[key] = i
		c.keys = append(c.keys, key)
	}

	return c
}

type recordCapability struct {
	record reflect.Type
	def    reflect.Value
	keys   []string
	fields map[string]int
}

func (c *recordCapability) Record() reflect.Type { return c.record }

func (c *recordCapability) Keys() []string { return slices.Clone(c.keys) }

func (c *recordCapability) Build(settings []Setting) (Value, error) {
	rv := reflect.New(c.record).Elem()
	rv.Set(c.def)

	for _, s := range settings {
		if s.err != nil {
			return Value{}, s.err
		}

		if s.Sub {
			return Value{}, fmt.Errorf("field index %d: %s takes option keys, not sub-addresses", s.Index, c.record)
		}

		i, ok := c.fields[s.Key]
		if !ok {
			return Value{}, &UnknownKeyError{Type: c.record, Key: s.Key, Accepted: c.Keys()}
		}

		if err := assign(rv.Field(i), s.Value); err != nil {
			return Value{}, &ValueError{Key: s.Key, Err: err}
		}
	}

	if v, ok := rv.Interface().(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return Value{}, fmt.Errorf("%s: %w", c.record, err)
		}
	}

	return valueOf(rv), nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// assign converts v into dst. Pointers are allocated; TextUnmarshaler
// fields take strings.
func assign(dst reflect.Value, v cty.Value) error {
	if v.IsNull() {
		return errors.New("value must not be null")
	}

	if dst.Kind() == reflect.Pointer {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}

		dst.Set(p)

		return nil
	}

	if _, ok := optionalElem(dst.Type()); ok {
		if err := assign(dst.FieldByName("Value"), v); err != nil {
			return err
		}

		dst.FieldByName("Valid").SetBool(true)

		return nil
	}

	if reflect.PointerTo(dst.Type()).Implements(textUnmarshalerType) {
		if !v.Type().Equals(cty.String) {
			return fmt.Errorf("%s expects a name, got %s", dst.Type(), v.Type().FriendlyName())
		}

		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.AsString()))
	}

	return gocty.FromCtyValue(v, dst.Addr().Interface())
}
