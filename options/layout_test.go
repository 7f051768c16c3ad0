package options

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type untagged struct {
	A float32
	B float32
}

type counter struct {
	Count int
}

func TestLayoutBuilder_AcceptsMatchingTable(t *testing.T) {
	table, err := NewBuilderFor[untagged]().
		InsertField(Field(0), "A", For[float32]()).
		InsertField(Field(1), "B", For[float32](Num("min", "0"))).
		Build()
	require.NoError(t, err)
	assert.Equal(t, []Target{Field(0), Field(1)}, table.Targets())
}

func TestLayoutBuilder_RejectsShiftedField(t *testing.T) {
	// A is hidden on the describing side only: B's options land on A's address.
	_, err := NewBuilderFor[untagged]().
		InsertField(Field(0), "B", For[float32](Num("min", "0"))).
		Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)

	var te *TargetError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, Field(0), te.Target)
	assert.Contains(t, err.Error(), "untagged.A, not B")
}

func TestLayoutBuilder_RejectsMissingEntries(t *testing.T) {
	_, err := NewBuilderFor[untagged]().
		Insert(Field(0), For[float32]()).
		Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)

	var te *TargetError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, Field(1), te.Target)
}

func TestLayoutBuilder_RejectsTypeMismatch(t *testing.T) {
	_, err := NewBuilderFor[counter]().
		InsertField(Field(0), "Count", For[float32](Num("min", "0"))).
		Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)
	assert.Contains(t, err.Error(), "has type int, not float32")
}

func TestLayoutBuilder_RejectsOutOfRange(t *testing.T) {
	_, err := NewBuilderFor[counter]().
		Insert(Field(0), For[int]()).
		Insert(Field(1), For[int]()).
		Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = NewBuilderFor[counter]().Insert(VariantField(0, 0), For[int]()).Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestLayoutBuilder_Enum(t *testing.T) {
	type shape interface{}

	b := func() *Builder {
		return NewBuilderFor[shape](VariantOf[counter](), VariantOf[struct{}](), VariantOf[*untagged]())
	}

	table, err := b().
		InsertField(VariantField(0, 0), "Count", For[int](Num("max", "9"))).
		InsertField(VariantField(2, 0), "A", For[float32]()).
		InsertField(VariantField(2, 1), "B", For[float32]()).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = b().Insert(Field(0), For[int]()).Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = b().InsertField(VariantField(1, 0), "Count", For[int]()).Build()
	require.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestLayout_Field(t *testing.T) {
	l := StructLayout(reflect.TypeFor[transform]())

	// Hidden is ignored, so Rotation is the second visible field.
	f, ok := l.Field(Field(1))
	require.True(t, ok)
	assert.Equal(t, "Rotation", f.Name)

	_, ok = l.Field(Field(3))
	assert.False(t, ok)
	assert.Len(t, l.Targets(), 3)
}
