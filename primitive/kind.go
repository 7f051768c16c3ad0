// Package primitive classifies Go's predeclared basic types.
package primitive

import (
	"reflect"
	"strconv"
)

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUintptr
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindBool
	KindString

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kinds = [KindTotal]struct {
	name string
	typ  reflect.Type
}{
	KindInt:        {"int", reflect.TypeFor[int]()},
	KindInt8:       {"int8", reflect.TypeFor[int8]()},
	KindInt16:      {"int16", reflect.TypeFor[int16]()},
	KindInt32:      {"int32", reflect.TypeFor[int32]()},
	KindInt64:      {"int64", reflect.TypeFor[int64]()},
	KindUint:       {"uint", reflect.TypeFor[uint]()},
	KindUint8:      {"uint8", reflect.TypeFor[uint8]()},
	KindUint16:     {"uint16", reflect.TypeFor[uint16]()},
	KindUint32:     {"uint32", reflect.TypeFor[uint32]()},
	KindUint64:     {"uint64", reflect.TypeFor[uint64]()},
	KindUintptr:    {"uintptr", reflect.TypeFor[uintptr]()},
	KindFloat32:    {"float32", reflect.TypeFor[float32]()},
	KindFloat64:    {"float64", reflect.TypeFor[float64]()},
	KindComplex64:  {"complex64", reflect.TypeFor[complex64]()},
	KindComplex128: {"complex128", reflect.TypeFor[complex128]()},
	KindBool:       {"bool", reflect.TypeFor[bool]()},
	KindString:     {"string", reflect.TypeFor[string]()},
}

// aliases are the predeclared alias spellings.
var aliases = map[string]KindEnum{
	"byte": KindUint8,
	"rune": KindInt32,
}

// IsValid reports whether k names a basic type.
func (k KindEnum) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

// String returns the Go spelling of the type, e.g. "float32".
func (k KindEnum) String() string {
	if !k.IsValid() {
		return "KindEnum(" + strconv.Itoa(int(k)) + ")"
	}

	return kinds[k].name
}

// Type returns the reflect.Type of k, or nil for invalid kinds.
func (k KindEnum) Type() reflect.Type {
	if !k.IsValid() {
		return nil
	}

	return kinds[k].typ
}

// IsNumber reports whether k is an integer or floating-point type. Complex
// types are not numbers here: they have no ordering.
func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// FromName returns the kind of a predeclared type name, accepting byte and
// rune. Other names yield the invalid zero kind.
func FromName(name string) KindEnum {
	if k, ok := aliases[name]; ok {
		return k
	}

	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if kinds[k].name == name {
			return k
		}
	}

	return 0
}

// FromReflectType returns the kind of a predeclared type. Defined types such
// as `type Meters float32` are not basic and yield the invalid zero kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if kinds[k].typ == rtype {
			return k
		}
	}

	return 0
}

// Numbers returns the number kinds in declaration order.
func Numbers() []KindEnum {
	var out []KindEnum

	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if k.IsNumber() {
			out = append(out, k)
		}
	}

	return out
}
