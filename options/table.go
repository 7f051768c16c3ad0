package options

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Decoration holds presentation hints shared by every options record.
type Decoration struct {
	Label    string
	Collapse bool
}

// Decoration keys accepted next to any record's own keys.
const (
	KeyLabel    = "label"
	KeyCollapse = "collapse"
)

// Entry is one table row.
type Entry struct {
	Target     Target
	Value      Value
	Decoration Decoration
}

// Table is an immutable, ordered mapping from targets to options values.
type Table struct {
	entries []Entry
	index   map[Target]int
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Get returns the entry for target.
func (t *Table) Get(target Target) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	i, ok := t.index[target]
	if !ok {
		return Entry{}, false
	}

	return t.entries[i], true
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)

	return out
}

// All iterates entries in insertion order.
func (t *Table) All() iter.Seq2[Target, Value] {
	return func(yield func(Target, Value) bool) {
		if t == nil {
			return
		}

		for _, e := range t.entries {
			if !yield(e.Target, e.Value) {
				return
			}
		}
	}
}

// Targets returns the targets in insertion order.
func (t *Table) Targets() []Target {
	out := make([]Target, 0, t.Len())
	for target := range t.All() {
		out = append(out, target)
	}

	return out
}

// Lookup returns the options value at target. Entries holding Empty are
// reported as absent.
func Lookup(t *Table, target Target) (Value, bool) {
	e, ok := t.Get(target)
	if !ok || e.Value.IsZero() || e.Value.IsEmpty() {
		return Value{}, false
	}

	return e.Value, true
}

// Spec describes how to build the options value of one target: the static
// type of the addressed field and its settings.
type Spec struct {
	typ      reflect.Type
	settings []Setting
}

// For builds the options of a field of type T.
func For[T any](settings ...Setting) Spec {
	return Spec{typ: reflect.TypeFor[T](), settings: settings}
}

// ForType is For with a runtime type.
func ForType(t reflect.Type, settings ...Setting) Spec {
	return Spec{typ: t, settings: settings}
}

// Type returns the field type.
func (s Spec) Type() reflect.Type {
	return s.typ
}

// Settings returns the settings.
func (s Spec) Settings() []Setting {
	return s.settings
}

// Builder accumulates table entries. The first error sticks and is returned
// by Build.
type Builder struct {
	entries []Entry
	index   map[Target]int
	layout  *Layout
	err     error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[Target]int)}
}

// NewLayoutBuilder creates a builder whose entries are checked against l.
// Insert fails on an entry that does not match the addressed field and
// Build fails unless every field of l has an entry.
func NewLayoutBuilder(l Layout) *Builder {
	b := NewBuilder()
	b.layout = &l

	return b
}

// NewBuilderFor is NewLayoutBuilder for T: a struct, or an enum with the
// given variant types.
func NewBuilderFor[T any](variants ...reflect.Type) *Builder {
	if len(variants) > 0 {
		return NewLayoutBuilder(EnumLayout(reflect.TypeFor[T](), variants...))
	}

	return NewLayoutBuilder(StructLayout(reflect.TypeFor[T]()))
}

// Insert builds the options value described by spec and stores it at target.
func (b *Builder) Insert(target Target, spec Spec) *Builder {
	return b.InsertField(target, "", spec)
}

// InsertField is Insert for a field known by name. With a layout, the name
// must match the field at target.
func (b *Builder) InsertField(target Target, name string, spec Spec) *Builder {
	if b.err != nil {
		return b
	}

	if b.layout != nil {
		if err := b.layout.check(target, name, spec); err != nil {
			b.err = &TargetError{Target: target, Err: err}

			return b
		}
	}

	deco, rest, err := SplitDecoration(spec.settings)
	if err != nil {
		b.err = &TargetError{Target: target, Err: err}

		return b
	}

	v, err := Build(spec.typ, rest)
	if err != nil {
		b.err = &TargetError{Target: target, Err: err}

		return b
	}

	return b.Put(target, v, deco)
}

// Put stores a prebuilt value at target.
func (b *Builder) Put(target Target, v Value, deco Decoration) *Builder {
	if b.err != nil {
		return b
	}

	if _, dup := b.index[target]; dup {
		b.err = &TargetError{Target: target, Err: ErrDuplicateTarget}

		return b
	}

	if v.IsZero() {
		v = NewValue(Empty{})
	}

	b.index[target] = len(b.entries)
	b.entries = append(b.entries, Entry{Target: target, Value: v, Decoration: deco})

	return b
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// Build freezes the builder into a Table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.layout != nil {
		if missing := b.layout.missing(b.index); len(missing) > 0 {
			return nil, &TargetError{
				Target: missing[0],
				Err:    fmt.Errorf("%w: %d visible fields have no entry", ErrLayoutMismatch, len(missing)),
			}
		}
	}

	t := &Table{
		entries: make([]Entry, len(b.entries)),
		index:   make(map[Target]int, len(b.entries)),
	}

	copy(t.entries, b.entries)

	for k, v := range b.index {
		t.index[k] = v
	}

	return t, nil
}

// SplitDecoration separates the label and collapse keys from settings.
func SplitDecoration(settings []Setting) (Decoration, []Setting, error) {
	var (
		deco Decoration
		rest = make([]Setting, 0, len(settings))
	)

	for _, s := range settings {
		if s.Sub {
			rest = append(rest, s)

			continue
		}

		if s.err != nil {
			return deco, nil, s.err
		}

		switch s.Key {
		case KeyLabel:
			if !s.Value.Type().Equals(cty.String) || s.Value.IsNull() {
				return deco, nil, &ValueError{Key: s.Key, Err: errors.New("label must be a string")}
			}

			deco.Label = s.Value.AsString()
		case KeyCollapse:
			if !s.Value.Type().Equals(cty.Bool) || s.Value.IsNull() {
				return deco, nil, &ValueError{Key: s.Key, Err: errors.New("collapse must be a bool")}
			}

			deco.Collapse = s.Value.True()
		default:
			rest = append(rest, s)
		}
	}

	return deco, rest, nil
}
