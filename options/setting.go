package options

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Setting is one evaluated directive: an option key with its value, or a
// sub-address carrying settings for a nested field.
type Setting struct {
	Key   string
	Value cty.Value

	// Sub marks a sub-address; Index is the nested reflected field index.
	Sub    bool
	Index  int
	Nested []Setting

	err error
}

// Num sets key to a numeric literal.
func Num(key, literal string) Setting {
	v, err := cty.ParseNumberVal(literal)
	if err != nil {
		return Setting{Key: key, err: &ValueError{Key: key, Err: err}}
	}

	return Setting{Key: key, Value: v}
}

// Str sets key to a string.
func Str(key, s string) Setting {
	return Setting{Key: key, Value: cty.StringVal(s)}
}

// Bool sets key to a boolean.
func Bool(key string, b bool) Setting {
	return Setting{Key: key, Value: cty.BoolVal(b)}
}

// Sym sets key to a symbol such as a display mode name.
func Sym(key, name string) Setting {
	return Setting{Key: key, Value: cty.StringVal(name)}
}

// Val sets key to an arbitrary cty value.
func Val(key string, v cty.Value) Setting {
	return Setting{Key: key, Value: v}
}

// JSON sets key to a value serialized with cty's JSON encoding. typ is the
// JSON encoded cty type.
func JSON(key, typ, value string) Setting {
	t, err := ctyjson.UnmarshalType([]byte(typ))
	if err != nil {
		return Setting{Key: key, err: &ValueError{Key: key, Err: err}}
	}

	v, err := ctyjson.Unmarshal([]byte(value), t)
	if err != nil {
		return Setting{Key: key, err: &ValueError{Key: key, Err: err}}
	}

	return Setting{Key: key, Value: v}
}

// At addresses the index-th visible field of the value's type.
func At(index int, nested ...Setting) Setting {
	return Setting{Sub: true, Index: index, Nested: nested}
}

// Name returns the key as written in a directive list.
func (s Setting) Name() string {
	if s.Sub {
		return fmt.Sprint(s.Index)
	}

	return s.Key
}

// Err returns the error recorded while constructing s.
func (s Setting) Err() error {
	return s.err
}

func (s Setting) String() string {
	if s.Sub {
		parts := make([]string, len(s.Nested))
		for i, n := range s.Nested {
			parts[i] = n.String()
		}

		return fmt.Sprintf("%d = { %s }", s.Index, strings.Join(parts, ", "))
	}

	if s.Value.Type() == cty.NilType {
		return s.Key
	}

	return fmt.Sprintf("%s = %#v", s.Key, s.Value)
}

// NestedFromCty converts the object assigned to a sub-address.
func NestedFromCty(index int, obj cty.Value) (Setting, error) {
	if obj.IsNull() || !obj.IsKnown() || !(obj.Type().IsObjectType() || obj.Type().IsMapType()) {
		return Setting{}, fmt.Errorf("field index %d: expected an object, got %s", index, obj.Type().FriendlyName())
	}

	out := At(index)

	for it := obj.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()

		if isIndex(name) {
			var idx int
			if _, err := fmt.Sscan(name, &idx); err != nil {
				return Setting{}, fmt.Errorf("field index %d: %w", index, err)
			}

			nested, err := NestedFromCty(idx, v)
			if err != nil {
				return Setting{}, err
			}

			out.Nested = append(out.Nested, nested)

			continue
		}

		out.Nested = append(out.Nested, Val(name, v))
	}

	return out, nil
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func hasSub(settings []Setting) bool {
	for _, s := range settings {
		if s.Sub {
			return true
		}
	}

	return false
}
