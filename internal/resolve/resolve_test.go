package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type field struct {
	name   string
	ignore bool
}

func isIgnored(f field) bool { return f.ignore }

func names(slots []Slot[field]) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Field.name
	}

	return out
}

func TestVisible_DenseFromZero(t *testing.T) {
	fields := []field{{name: "a"}, {name: "b"}, {name: "c"}}

	slots := Visible(fields, isIgnored)
	require.Len(t, slots, 3)

	for i, s := range slots {
		assert.Equal(t, i, s.Reflected)
		assert.Equal(t, i, s.Declared)
	}
}

func TestVisible_IgnoredFieldHasNoSlot(t *testing.T) {
	fields := []field{{name: "_a", ignore: true}, {name: "b"}}

	slots := Visible(fields, isIgnored)
	require.Len(t, slots, 1)
	assert.Equal(t, "b", slots[0].Field.name)
	assert.Equal(t, 0, slots[0].Reflected)
	assert.Equal(t, 1, slots[0].Declared)
}

func TestVisible_ToggleIgnoreShiftsLaterFields(t *testing.T) {
	fields := []field{{name: "a"}, {name: "b"}, {name: "c"}, {name: "d"}}

	before := Visible(fields, isIgnored)
	require.Len(t, before, 4)

	fields[1].ignore = true
	after := Visible(fields, isIgnored)
	require.Len(t, after, 3)

	assert.Equal(t, []string{"a", "c", "d"}, names(after))
	// a keeps its index, c and d move down by one, b disappears.
	assert.Equal(t, before[0].Reflected, after[0].Reflected)
	assert.Equal(t, before[2].Reflected-1, after[1].Reflected)
	assert.Equal(t, before[3].Reflected-1, after[2].Reflected)
}

func TestVisible_StableUnderLaterIgnoredFields(t *testing.T) {
	base := []field{{name: "a"}, {name: "b"}}
	extended := []field{{name: "a"}, {name: "b"}, {name: "_x", ignore: true}, {name: "_y", ignore: true}}

	assert.Equal(t, names(Visible(base, isIgnored)), names(Visible(extended, isIgnored)))

	for i, s := range Visible(extended, isIgnored) {
		assert.Equal(t, i, s.Reflected)
	}
}

func TestVisible_ReorderShiftsIndices(t *testing.T) {
	fields := []field{{name: "a"}, {name: "b"}}
	swapped := []field{{name: "b"}, {name: "a"}}

	assert.Equal(t, "a", Visible(fields, isIgnored)[0].Field.name)
	assert.Equal(t, "b", Visible(swapped, isIgnored)[0].Field.name)
}

func TestVariants_PerVariantIndices(t *testing.T) {
	type variant struct {
		fields []field
	}

	variants := []variant{
		{fields: []field{{name: "_ignored", ignore: true}, {name: "no_ignored"}}},
		{},
		{fields: []field{{name: "x"}, {name: "_y", ignore: true}, {name: "z"}}},
	}

	slots := Variants(variants, func(v variant) []field { return v.fields }, isIgnored)
	require.Len(t, slots, 3)

	assert.Equal(t, 0, slots[0].Variant)
	assert.Equal(t, 0, slots[0].Reflected)
	assert.Equal(t, "no_ignored", slots[0].Field.name)

	assert.Equal(t, 2, slots[1].Variant)
	assert.Equal(t, 0, slots[1].Reflected)
	assert.Equal(t, 2, slots[2].Variant)
	assert.Equal(t, 1, slots[2].Reflected)
	assert.Equal(t, "z", slots[2].Field.name)
}
