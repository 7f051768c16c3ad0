package options

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type vec2 struct {
	X float32
	Y float32
}

type transform struct {
	Position vec2
	Hidden   int `inspector:"ignore"`
	Rotation Quat
	Scale    float32
}

type meters float32

func build[T any](t *testing.T, settings ...Setting) Value {
	t.Helper()

	v, err := Build(reflect.TypeFor[T](), settings)
	require.NoError(t, err)

	return v
}

func TestNumberOptions_FromSettings(t *testing.T) {
	v := build[float32](t, Num("min", "2.0"), Num("max", "3.0"), Num("speed", "0.5"), Str("suffix", "m"))

	num, ok := Downcast[NumberOptions[float32]](v)
	require.True(t, ok)
	require.NotNil(t, num.Min)
	require.NotNil(t, num.Max)
	assert.InDelta(t, 2.0, *num.Min, 1e-6)
	assert.InDelta(t, 3.0, *num.Max, 1e-6)
	assert.InDelta(t, 0.5, num.Speed, 1e-6)
	assert.Equal(t, "m", num.Suffix)
	assert.Equal(t, NumberDisplayDrag, num.Display)
}

func TestNumberOptions_DefaultIsUnbounded(t *testing.T) {
	num, ok := Downcast[NumberOptions[int64]](build[int64](t))
	require.True(t, ok)
	assert.Nil(t, num.Min)
	assert.Nil(t, num.Max)
}

func TestNumberOptions_Conversion(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		set  Setting
	}{
		{"fraction into int", reflect.TypeFor[int](), Num("min", "2.5")},
		{"overflow uint8", reflect.TypeFor[uint8](), Num("max", "300")},
		{"string into number", reflect.TypeFor[float64](), Str("min", "zero")},
		{"number into string", reflect.TypeFor[float64](), Num("prefix", "1")},
		{"unknown display", reflect.TypeFor[float64](), Sym("display", "Wheel")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.typ, []Setting{tt.set})
			require.Error(t, err)

			var ve *ValueError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestNumberOptions_Validate(t *testing.T) {
	_, err := Build(reflect.TypeFor[int](), []Setting{Num("min", "5"), Num("max", "1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than max")

	_, err = Build(reflect.TypeFor[int](), []Setting{Sym("display", "Slider")})
	require.Error(t, err)

	num, ok := Downcast[NumberOptions[int]](build[int](t, Num("min", "0"), Num("max", "10"), Sym("display", "NumberDisplay.Slider")))
	require.True(t, ok)
	assert.Equal(t, NumberDisplaySlider, num.Display)
	assert.Equal(t, 10, num.Clamp(42))
}

func TestUnknownKey_ListsAccepted(t *testing.T) {
	_, err := Build(reflect.TypeFor[float32](), []Setting{Num("maximum", "1")})

	var uk *UnknownKeyError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, "maximum", uk.Key)
	assert.Equal(t, []string{"min", "max", "speed", "prefix", "suffix", "display"}, uk.Accepted)
}

func TestQuat_DefaultsToEuler(t *testing.T) {
	q, ok := Downcast[QuatOptions](build[Quat](t))
	require.True(t, ok)
	assert.Equal(t, QuatDisplayEuler, q.Display)

	q, ok = Downcast[QuatOptions](build[Quat](t, Sym("display", "yaw_pitch_roll")))
	require.True(t, ok)
	assert.Equal(t, QuatDisplayYawPitchRoll, q.Display)
}

func TestNonCapableType(t *testing.T) {
	assert.False(t, Capable(reflect.TypeFor[meters]()))
	assert.False(t, Capable(reflect.TypeFor[string]()))
	assert.True(t, build[meters](t).IsEmpty())

	_, err := Build(reflect.TypeFor[string](), []Setting{Num("min", "1")})

	var uk *UnknownKeyError
	require.ErrorAs(t, err, &uk)
	assert.Empty(t, uk.Accepted)
}

func TestOptional_WithoutSettingsIsEmpty(t *testing.T) {
	assert.True(t, build[Optional[float32]](t).IsEmpty())
	assert.True(t, build[*float32](t).IsEmpty())
	assert.True(t, build[*vec2](t).IsEmpty())
}

func TestOptional_NestsElementOptions(t *testing.T) {
	v := build[Optional[float32]](t, Num("min", "1"))

	table, ok := Downcast[*Table](v)
	require.True(t, ok)
	require.Equal(t, 1, table.Len())

	inner, ok := Lookup(table, VariantField(1, 0))
	require.True(t, ok)

	num, ok := Downcast[NumberOptions[float32]](inner)
	require.True(t, ok)
	assert.InDelta(t, 1, *num.Min, 0)

	c, ok := CapabilityOf(reflect.TypeFor[Optional[float32]]())
	require.True(t, ok)
	assert.Contains(t, c.Keys(), "min")
}

func TestSlice_ForwardsToElement(t *testing.T) {
	num, ok := Downcast[NumberOptions[float64]](build[[]float64](t, Num("max", "9")))
	require.True(t, ok)
	assert.InDelta(t, 9, *num.Max, 0)

	_, ok = Downcast[QuatOptions](build[[4]Quat](t))
	assert.True(t, ok)

	assert.False(t, Capable(reflect.TypeFor[[]string]()))
}

func TestSubAddress_BuildsNestedTable(t *testing.T) {
	v := build[transform](t,
		At(0, At(1, Num("min", "0"))),
		At(2, Num("speed", "0.1")),
	)

	table, ok := Downcast[*Table](v)
	require.True(t, ok)
	assert.Equal(t, []Target{Field(0), Field(2)}, table.Targets())

	// Field(2) is Scale: Hidden is ignored so it does not take an index.
	scale, ok := Lookup(table, Field(2))
	require.True(t, ok)
	num, ok := Downcast[NumberOptions[float32]](scale)
	require.True(t, ok)
	assert.InDelta(t, 0.1, num.Speed, 1e-6)

	pos, ok := Lookup(table, Field(0))
	require.True(t, ok)
	posTable, ok := Downcast[*Table](pos)
	require.True(t, ok)

	y, ok := Lookup(posTable, Field(1))
	require.True(t, ok)
	_, ok = Downcast[NumberOptions[float32]](y)
	assert.True(t, ok)
}

func TestSubAddress_Errors(t *testing.T) {
	_, err := Build(reflect.TypeFor[vec2](), []Setting{At(2, Num("min", "0"))})

	var ie *IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 2, ie.Index)
	assert.Equal(t, 2, ie.Len)

	_, err = Build(reflect.TypeFor[vec2](), []Setting{At(0), Num("min", "0")})
	require.ErrorIs(t, err, ErrMixedSettings)

	_, err = Build(reflect.TypeFor[float32](), []Setting{At(0, Num("min", "0"))})
	require.Error(t, err)
}

func TestNestedFromCty(t *testing.T) {
	obj := cty.ObjectVal(map[string]cty.Value{
		"min": cty.NumberIntVal(0),
		"1":   cty.ObjectVal(map[string]cty.Value{"max": cty.NumberIntVal(3)}),
	})

	s, err := NestedFromCty(0, obj)
	require.NoError(t, err)
	require.True(t, s.Sub)
	require.Len(t, s.Nested, 2)

	// Object attributes iterate in name order.
	assert.True(t, s.Nested[0].Sub)
	assert.Equal(t, 1, s.Nested[0].Index)
	assert.Equal(t, "min", s.Nested[1].Key)

	_, err = NestedFromCty(0, cty.NumberIntVal(1))
	assert.Error(t, err)
}

func TestRecordOf_CustomRecord(t *testing.T) {
	type color struct{ R, G, B uint8 }
	type colorOptions struct {
		Alpha  bool
		Picker string `inspector:"picker"`
		hidden int
	}

	RegisterCapability(reflect.TypeFor[color](), RecordOf(colorOptions{Picker: "wheel"}))

	c, ok := CapabilityOf(reflect.TypeFor[color]())
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "picker"}, c.Keys())
	assert.Equal(t, reflect.TypeFor[colorOptions](), c.Record())

	opts, ok := Downcast[colorOptions](build[color](t, Bool("alpha", true)))
	require.True(t, ok)
	assert.True(t, opts.Alpha)
	assert.Equal(t, "wheel", opts.Picker)
	assert.Zero(t, opts.hidden)
}

func TestDowncast_Mismatch(t *testing.T) {
	v := NewValue(NumberOptions[float32]{})

	_, ok := Downcast[NumberOptions[float64]](v)
	assert.False(t, ok)

	_, ok = Downcast[Empty](Value{})
	assert.False(t, ok)

	var s fmtStringer = stringerImpl{}
	boxed := NewValue(s)
	_, ok = Downcast[stringerImpl](boxed)
	assert.False(t, ok, "tag is the static type")
	_, ok = Downcast[fmtStringer](boxed)
	assert.True(t, ok)
}

type fmtStringer interface{ String() string }

type stringerImpl struct{}

func (stringerImpl) String() string { return "" }

func TestSymbols(t *testing.T) {
	syms := Symbols()
	assert.Equal(t, cty.StringVal("Euler"), syms["Euler"])
	assert.True(t, syms["QuatDisplay"].Type().IsObjectType())
	assert.Equal(t, cty.StringVal("Slider"), syms["NumberDisplay"].GetAttr("Slider"))
}

func TestRecordOf_OptionalAttribute(t *testing.T) {
	type custom struct{}
	type customOptions struct {
		Optional  Optional[uint8]
		Limit     *uint8
		Defaulted float32
	}

	RegisterCapability(reflect.TypeFor[custom](), RecordOf(customOptions{Defaulted: 1}))

	opts, ok := Downcast[customOptions](build[custom](t, Num("optional", "10"), Num("limit", "3")))
	require.True(t, ok)

	v, present := opts.Optional.Get()
	assert.True(t, present)
	assert.Equal(t, uint8(10), v)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, uint8(3), *opts.Limit)
	assert.InDelta(t, 1, opts.Defaulted, 0)

	opts, ok = Downcast[customOptions](build[custom](t))
	require.True(t, ok)
	_, present = opts.Optional.Get()
	assert.False(t, present)
}
