package options

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inspector-options/internal/common"
)

// Number is the set of builtin numeric types with NumberOptions.
type Number interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Derivable is the constraint injected on type parameters that appear in
// annotated field types: any type with a builtin options record.
type Derivable interface {
	Number | Quat
}

// NumberDisplay selects how a number is edited.
type NumberDisplay uint8

const (
	// NumberDisplayDrag edits by dragging.
	NumberDisplayDrag NumberDisplay = iota
	// NumberDisplaySlider shows a slider. Requires both bounds.
	NumberDisplaySlider
)

var numberDisplayNames = []string{"Drag", "Slider"}

// String returns the display name.
func (d NumberDisplay) String() string {
	if int(d) < len(numberDisplayNames) {
		return numberDisplayNames[d]
	}

	return common.UnknownStr
}

// UnmarshalText accepts a display name, case-insensitively.
func (d *NumberDisplay) UnmarshalText(text []byte) error {
	i, err := parseSymbol("NumberDisplay", numberDisplayNames, string(text))
	if err != nil {
		return err
	}

	*d = NumberDisplay(i)

	return nil
}

// NumberOptions is the options record of every Number type.
type NumberOptions[T Number] struct {
	Min     *T            `inspector:"min"`
	Max     *T            `inspector:"max"`
	Speed   float32       `inspector:"speed"`
	Prefix  string        `inspector:"prefix"`
	Suffix  string        `inspector:"suffix"`
	Display NumberDisplay `inspector:"display"`
}

// Between returns options bounded to [lo, hi].
func Between[T Number](lo, hi T) NumberOptions[T] {
	return NumberOptions[T]{Min: &lo, Max: &hi}
}

// AtLeast returns options bounded below by lo.
func AtLeast[T Number](lo T) NumberOptions[T] {
	return NumberOptions[T]{Min: &lo}
}

// Positive returns options bounded below by zero.
func Positive[T Number]() NumberOptions[T] {
	return AtLeast[T](0)
}

// Normalized returns options bounded to [0, 1].
func Normalized[T Number]() NumberOptions[T] {
	return Between[T](0, 1)
}

// WithSpeed returns a copy with the drag speed set.
func (o NumberOptions[T]) WithSpeed(speed float32) NumberOptions[T] {
	o.Speed = speed

	return o
}

// Clamp limits v to the configured bounds.
func (o NumberOptions[T]) Clamp(v T) T {
	if o.Min != nil && v < *o.Min {
		v = *o.Min
	}

	if o.Max != nil && v > *o.Max {
		v = *o.Max
	}

	return v
}

// Validate checks that the bounds are ordered and that a slider is bounded.
func (o NumberOptions[T]) Validate() error {
	if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
		return fmt.Errorf("min %v is greater than max %v", *o.Min, *o.Max)
	}

	if o.Display == NumberDisplaySlider && (o.Min == nil || o.Max == nil) {
		return errors.New("slider display needs both min and max")
	}

	return nil
}

// MapNumber converts options between numeric types.
func MapNumber[T, U Number](o NumberOptions[T], f func(T) U) NumberOptions[U] {
	out := NumberOptions[U]{Speed: o.Speed, Prefix: o.Prefix, Suffix: o.Suffix, Display: o.Display}

	if o.Min != nil {
		v := f(*o.Min)
		out.Min = &v
	}

	if o.Max != nil {
		v := f(*o.Max)
		out.Max = &v
	}

	return out
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

// QuatDisplay selects how a quaternion is edited.
type QuatDisplay uint8

const (
	QuatDisplayRaw QuatDisplay = iota
	QuatDisplayEuler
	QuatDisplayYawPitchRoll
	QuatDisplayAxisAngle
)

var quatDisplayNames = []string{"Raw", "Euler", "YawPitchRoll", "AxisAngle"}

// String returns the display name.
func (d QuatDisplay) String() string {
	if int(d) < len(quatDisplayNames) {
		return quatDisplayNames[d]
	}

	return common.UnknownStr
}

// UnmarshalText accepts a display name, case-insensitively.
func (d *QuatDisplay) UnmarshalText(text []byte) error {
	i, err := parseSymbol("QuatDisplay", quatDisplayNames, string(text))
	if err != nil {
		return err
	}

	*d = QuatDisplay(i)

	return nil
}

// QuatOptions is the options record of Quat. Euler is the default display.
type QuatOptions struct {
	Display QuatDisplay `inspector:"display"`
}

// Optional is a value that may be absent. Its options follow the element:
// a table with the element's options at VariantField(1, 0), the Some state.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (Optional[T]) optionalElem() reflect.Type {
	return reflect.TypeFor[T]()
}

func parseSymbol(set string, names []string, s string) (int, error) {
	want := strings.ReplaceAll(strings.TrimPrefix(s, set+"."), "_", "")
	for i, n := range names {
		if strings.EqualFold(n, want) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("unknown %s %q (expected one of %s)", set, s, strings.Join(names, ", "))
}

func registerNumber[T Number]() {
	RegisterCapability(reflect.TypeFor[T](), RecordOf(NumberOptions[T]{}))
}

func init() {
	registerNumber[int]()
	registerNumber[int8]()
	registerNumber[int16]()
	registerNumber[int32]()
	registerNumber[int64]()
	registerNumber[uint]()
	registerNumber[uint8]()
	registerNumber[uint16]()
	registerNumber[uint32]()
	registerNumber[uint64]()
	registerNumber[float32]()
	registerNumber[float64]()

	RegisterCapability(reflect.TypeFor[Quat](), RecordOf(QuatOptions{Display: QuatDisplayEuler}))

	RegisterSymbols("NumberDisplay", numberDisplayNames...)
	RegisterSymbols("QuatDisplay", quatDisplayNames...)
}
