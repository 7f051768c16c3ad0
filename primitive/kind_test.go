package primitive_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"inspector-options/primitive"
)

func Example() {
	type Meters float32
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Meters(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	fmt.Println(primitive.FromName("rune"))
	// Output:
	// int
	// string
	// KindEnum(0)
	// KindEnum(0)
	// int32
}

func TestNumbers(t *testing.T) {
	nums := primitive.Numbers()
	assert.Len(t, nums, 12)

	for _, k := range nums {
		assert.True(t, k.Type().ConvertibleTo(reflect.TypeFor[float64]()), k.String())
	}

	assert.False(t, primitive.KindComplex64.IsNumber())
	assert.False(t, primitive.KindUintptr.IsNumber())
	assert.True(t, primitive.FromName("byte").IsUnsigned())
	assert.Nil(t, primitive.FromName("Vec3").Type())
}
