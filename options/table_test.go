package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_KeepsInsertionOrder(t *testing.T) {
	table, err := NewBuilder().
		Insert(Field(1), For[float32](Num("min", "1"))).
		Insert(Field(0), For[string]()).
		Insert(VariantField(2, 0), For[int](Num("max", "4"))).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []Target{Field(1), Field(0), VariantField(2, 0)}, table.Targets())
}

func TestBuilder_DuplicateTarget(t *testing.T) {
	_, err := NewBuilder().
		Insert(Field(0), For[float32]()).
		Insert(Field(0), For[float32]()).
		Build()

	require.ErrorIs(t, err, ErrDuplicateTarget)

	var te *TargetError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, Field(0), te.Target)
}

func TestBuilder_FirstErrorSticks(t *testing.T) {
	b := NewBuilder().
		Insert(Field(0), For[float32](Str("min", "low"))).
		Insert(Field(1), For[string](Num("nope", "1")))

	_, err := b.Build()
	require.Error(t, err)

	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "min", ve.Key)
}

func TestBuilder_Decoration(t *testing.T) {
	table, err := NewBuilder().
		Insert(Field(0), For[float32](Str(KeyLabel, "Speed"), Bool(KeyCollapse, true), Num("min", "0"))).
		Insert(Field(1), For[string](Str(KeyLabel, "Name"))).
		Build()
	require.NoError(t, err)

	e, ok := table.Get(Field(0))
	require.True(t, ok)
	assert.Equal(t, Decoration{Label: "Speed", Collapse: true}, e.Decoration)

	num, ok := Downcast[NumberOptions[float32]](e.Value)
	require.True(t, ok)
	require.NotNil(t, num.Min)
	assert.InDelta(t, 0, *num.Min, 0)

	// A string field accepts decoration keys only.
	e, ok = table.Get(Field(1))
	require.True(t, ok)
	assert.Equal(t, "Name", e.Decoration.Label)
	assert.True(t, e.Value.IsEmpty())
}

func TestBuilder_DecorationTypeMismatch(t *testing.T) {
	_, err := NewBuilder().Insert(Field(0), For[int](Num(KeyLabel, "3"))).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label must be a string")
}

func TestLookup_EmptyIsAbsent(t *testing.T) {
	table, err := NewBuilder().
		Insert(Field(0), For[string]()).
		Insert(Field(1), For[int]()).
		Build()
	require.NoError(t, err)

	_, ok := Lookup(table, Field(0))
	assert.False(t, ok)

	v, ok := Lookup(table, Field(1))
	require.True(t, ok)
	_, ok = Downcast[NumberOptions[int]](v)
	assert.True(t, ok)

	_, ok = Lookup(table, Field(2))
	assert.False(t, ok)

	_, ok = Lookup(nil, Field(0))
	assert.False(t, ok)
}

func TestTable_AllStopsEarly(t *testing.T) {
	table, err := NewBuilder().
		Insert(Field(0), For[int]()).
		Insert(Field(1), For[int]()).
		Build()
	require.NoError(t, err)

	n := 0
	for range table.All() {
		n++

		break
	}

	assert.Equal(t, 1, n)
}

func TestTable_Immutable(t *testing.T) {
	b := NewBuilder().Insert(Field(0), For[int]())

	table, err := b.Build()
	require.NoError(t, err)

	b.Insert(Field(1), For[int]())
	assert.Equal(t, 1, table.Len())

	entries := table.Entries()
	entries[0].Target = Field(9)
	_, ok := table.Get(Field(0))
	assert.True(t, ok)
}

func TestSetting_BadNumberLiteral(t *testing.T) {
	s := Num("min", "two")
	require.Error(t, s.Err())

	_, err := NewBuilder().Insert(Field(0), For[int](s)).Build()
	assert.True(t, errors.Is(err, s.Err()))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "Field(3)", Field(3).String())
	assert.Equal(t, "VariantField(1, 0)", VariantField(1, 0).String())
	assert.True(t, Field(5).Less(VariantField(0, 0)))
	assert.True(t, VariantField(0, 9).Less(VariantField(1, 0)))
	assert.Equal(t, "variant_field", TargetVariantField.String())
}
