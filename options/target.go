package options

import (
	"fmt"

	"inspector-options/internal/common"
)

// TargetKind tells which coordinate system a Target uses.
type TargetKind uint8

const (
	// TargetField addresses a field of a struct.
	TargetField TargetKind = iota
	// TargetVariantField addresses a field of one enum variant.
	TargetVariantField
)

// String returns a human-readable representation of the TargetKind.
func (k TargetKind) String() string {
	switch k {
	case TargetField:
		return "field"
	case TargetVariantField:
		return "variant_field"
	default:
		return common.UnknownStr
	}
}

// Target is a structural address inside a type. Indices are reflected
// indices: they count only fields that are visible to the inspector.
type Target struct {
	Kind    TargetKind
	Variant int // variant index, TargetVariantField only
	Index   int // reflected field index
}

// Field addresses the i-th visible field of a struct.
func Field(i int) Target {
	return Target{Kind: TargetField, Index: i}
}

// VariantField addresses the field-th visible field of the variant-th
// declared variant of an enum.
func VariantField(variant, field int) Target {
	return Target{Kind: TargetVariantField, Variant: variant, Index: field}
}

// String returns the target in the form Field(0) or VariantField(1, 0).
func (t Target) String() string {
	if t.Kind == TargetVariantField {
		return fmt.Sprintf("VariantField(%d, %d)", t.Variant, t.Index)
	}

	return fmt.Sprintf("Field(%d)", t.Index)
}

// Less orders targets by variant, then by field index.
func (t Target) Less(o Target) bool {
	if t.Kind != o.Kind {
		return t.Kind < o.Kind
	}

	if t.Variant != o.Variant {
		return t.Variant < o.Variant
	}

	return t.Index < o.Index
}
