package plan

import (
	"strings"

	"inspector-options/internal/bounds"
	"inspector-options/internal/diagnostic"
	"inspector-options/internal/schema"
	"inspector-options/options"
)

// Plan is the compiled options description of a schema file. It contains
// everything needed for code generation.
type Plan struct {
	// Package is the Go package the generated code belongs to.
	Package string
	// Imports are needed by field type expressions.
	Imports []schema.Import
	// Types are the compiled types in schema order.
	Types []TypePlan
	// Diagnostics contains all warnings and errors from compilation.
	Diagnostics diagnostic.Diagnostics
}

// TypePlan is the compiled options table of one annotated type.
type TypePlan struct {
	Name string
	Kind schema.Kind
	// Bounds are the type parameters with their builder constraints.
	Bounds []bounds.Bound
	// Instances are the concrete instantiations to register. Non-generic
	// types have exactly one instance without arguments.
	Instances []Instance
	// Variants are the enum variants in declaration order.
	Variants []VariantPlan
	// Entries are the table entries in table order.
	Entries []EntryPlan
}

// Instance is one concrete instantiation of a type.
type Instance struct {
	Args []string
}

// VariantPlan describes one enum variant.
type VariantPlan struct {
	Name  string
	Index int
	// Visible is the number of fields that get an address.
	Visible int
}

// EntryPlan is one table entry: the address of a visible field, its value
// type and its evaluated directives.
type EntryPlan struct {
	Target options.Target
	// Name is the Go field name.
	Name string
	// Field is the Go field name, prefixed with the variant name for enums.
	Field string
	// Type is the field's Go type expression.
	Type  string
	Class FieldClass
	// Settings are the evaluated non-meta directives.
	Settings []options.Setting
}

// FieldClass is the static classification of a field type.
type FieldClass int

const (
	// ClassOther is any type with no static options knowledge.
	ClassOther FieldClass = iota
	// ClassBuiltin is a type with a builtin options record.
	ClassBuiltin
	// ClassWrapper is a pointer or options.Optional.
	ClassWrapper
	// ClassSequence is a slice or array.
	ClassSequence
	// ClassParam is a type parameter.
	ClassParam
	// ClassNamed is a type declared in the schema.
	ClassNamed
)

// String returns a human-readable class name.
func (c FieldClass) String() string {
	switch c {
	case ClassOther:
		return "other"
	case ClassBuiltin:
		return "builtin"
	case ClassWrapper:
		return "wrapper"
	case ClassSequence:
		return "sequence"
	case ClassParam:
		return "param"
	case ClassNamed:
		return "named"
	default:
		return "unknown"
	}
}

// TypeExpr renders the instantiated type, e.g. Pair[float32, int].
func (t *TypePlan) TypeExpr(inst Instance) string {
	if len(inst.Args) == 0 {
		return t.Name
	}

	return t.Name + "[" + strings.Join(inst.Args, ", ") + "]"
}

// IsGeneric reports whether the type has type parameters.
func (t *TypePlan) IsGeneric() bool {
	return len(t.Bounds) > 0
}

// FindType returns the compiled type with the given name.
func (p *Plan) FindType(name string) *TypePlan {
	for i := range p.Types {
		if p.Types[i].Name == name {
			return &p.Types[i]
		}
	}

	return nil
}
