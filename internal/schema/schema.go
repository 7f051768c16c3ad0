package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"inspector-options/internal/attr"
)

// Kind is the shape of an annotated type.
type Kind string

const (
	KindStruct Kind = "struct"
	KindEnum   Kind = "enum"
)

// File is a set of annotated types that generate into one Go package.
type File struct {
	Version string   `yaml:"version"`
	Package string   `yaml:"package"`
	Imports []Import `yaml:"imports,omitempty"`
	Types   []Type   `yaml:"types"`

	// Path is where the file was loaded from.
	Path string `yaml:"-"`
}

// Import is an import needed by field type expressions.
type Import struct {
	Alias string `yaml:"alias,omitempty"`
	Path  string `yaml:"path"`
}

// Type describes one annotated struct or enum.
type Type struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind,omitempty"`
	// Params are the type parameters in declaration order.
	Params []Param `yaml:"params,omitempty"`
	// Inspector holds type-level directives, e.g. override_where_clause.
	Inspector string    `yaml:"inspector,omitempty"`
	Fields    []Field   `yaml:"fields,omitempty"`
	Variants  []Variant `yaml:"variants,omitempty"`
	// Instances are type argument lists to register, e.g. "float32, int".
	Instances StringOrArray `yaml:"instances,omitempty"`

	Pos Pos `yaml:"-"`
}

// Param is a type parameter. Constraint is the declared constraint, empty
// for any.
type Param struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint,omitempty"`
}

// Variant is one alternative of an enum. Its Go type is Name, or
// Name[Params] for generic enums.
type Variant struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields,omitempty"`

	Pos Pos `yaml:"-"`
}

// Field is one struct or variant field.
type Field struct {
	Name string `yaml:"name"`
	// Type is a Go type expression in the scope of the generated package.
	Type string `yaml:"type"`
	// Inspector is the raw directive list.
	Inspector string `yaml:"inspector,omitempty"`
	// Ignore hides the field. Equivalent to an ignore directive.
	Ignore bool `yaml:"ignore,omitempty"`

	// Pos locates Inspector in its source.
	Pos Pos `yaml:"-"`
}

// Pos is a source position.
type Pos struct {
	File   string
	Line   int
	Column int
	Byte   int

	// Escapes lists the escape sequences of a quoted source in order. The
	// directive text is the unquoted value, so its positions are shifted
	// past them to land on the source.
	Escapes []Escape
}

// Escape is an escape sequence that starts at Offset in the unquoted text
// and is Bytes bytes and Columns columns longer in the source.
type Escape struct {
	Offset  int
	Bytes   int
	Columns int
}

// HCL converts p for the directive parser. The zero Pos maps to the start
// of the input.
func (p Pos) HCL() hcl.Pos {
	if p.Line == 0 {
		return hcl.InitialPos
	}

	return hcl.Pos{Line: p.Line, Column: max(p.Column, 1), Byte: p.Byte}
}

// Range maps r, parsed from the unquoted text starting at p, onto the
// source.
func (p Pos) Range(r hcl.Range) hcl.Range {
	r.Start = p.shift(r.Start)
	r.End = p.shift(r.End)

	return r
}

// Diagnostics maps the subjects of diags onto the source.
func (p Pos) Diagnostics(diags hcl.Diagnostics) hcl.Diagnostics {
	if len(p.Escapes) == 0 {
		return diags
	}

	out := make(hcl.Diagnostics, len(diags))

	for i, d := range diags {
		c := *d
		if c.Subject != nil {
			r := p.Range(*c.Subject)
			c.Subject = &r
		}

		out[i] = &c
	}

	return out
}

func (p Pos) shift(at hcl.Pos) hcl.Pos {
	if len(p.Escapes) == 0 || at.Line != p.HCL().Line {
		return at
	}

	off := at.Byte - p.Byte

	for _, e := range p.Escapes {
		if e.Offset >= off {
			break
		}

		at.Byte += e.Bytes
		at.Column += e.Columns
	}

	return at
}

// String renders p as file:line:column.
func (p Pos) String() string {
	if p.Line == 0 {
		return p.File
	}

	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsEnum reports whether t is an enum.
func (t *Type) IsEnum() bool {
	return t.Kind == KindEnum
}

// IsGeneric reports whether t has type parameters.
func (t *Type) IsGeneric() bool {
	return len(t.Params) > 0
}

// Ignored reports whether the field is hidden from the inspector, through
// the Ignore flag or an ignore directive.
func (f *Field) Ignored() bool {
	return f.Ignore || attr.HasFlag(f.Inspector, attr.KeyIgnore)
}

// ParamNames returns the names of t's type parameters.
func (t *Type) ParamNames() []string {
	out := make([]string, len(t.Params))
	for i, p := range t.Params {
		out[i] = p.Name
	}

	return out
}

// FindType returns the type with the given name.
func (f *File) FindType(name string) *Type {
	for i := range f.Types {
		if f.Types[i].Name == name {
			return &f.Types[i]
		}
	}

	return nil
}
