// Package resolve computes reflected indices: the position of each field in
// the ignore-filtered, declaration-ordered field sequence that the runtime
// inspector walks.
//
// The reflected index of a field depends on every field declared before it:
// toggling ignore on an earlier field shifts all later indices by one, while
// ignored fields declared later have no effect. Variant indices are plain
// declaration positions; only fields inside a variant may be ignored.
package resolve

// Slot binds a declared field to its reflected index.
type Slot[F any] struct {
	Field     F
	Declared  int // position in the declaration order
	Reflected int // position among non-ignored fields
}

// VariantSlot binds a field of an enum variant to its address.
type VariantSlot[F any] struct {
	Slot[F]
	Variant int
}

// Visible returns one Slot per non-ignored field, in declaration order.
func Visible[F any](fields []F, ignored func(F) bool) []Slot[F] {
	slots := make([]Slot[F], 0, len(fields))

	next := 0
	for i, f := range fields {
		if ignored(f) {
			continue
		}

		slots = append(slots, Slot[F]{Field: f, Declared: i, Reflected: next})
		next++
	}

	return slots
}

// Variants applies Visible to every variant independently. fieldsOf returns
// the declared fields of a variant.
func Variants[V, F any](variants []V, fieldsOf func(V) []F, ignored func(F) bool) []VariantSlot[F] {
	var out []VariantSlot[F]

	for vi, v := range variants {
		for _, s := range Visible(fieldsOf(v), ignored) {
			out = append(out, VariantSlot[F]{Slot: s, Variant: vi})
		}
	}

	return out
}
