package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"inspector-options/options"
)

// SettingExpr renders s as the Go expression that recreates it at runtime.
// Numbers keep their decimal text so narrowing happens in the options
// package, with the same rules the compiler checked against.
func SettingExpr(s options.Setting) (string, error) {
	if err := s.Err(); err != nil {
		return "", err
	}

	if s.Sub {
		parts := make([]string, 0, len(s.Nested)+1)
		parts = append(parts, strconv.Itoa(s.Index))

		for _, n := range s.Nested {
			expr, err := SettingExpr(n)
			if err != nil {
				return "", fmt.Errorf("[%d]: %w", s.Index, err)
			}

			parts = append(parts, expr)
		}

		return "options.At(" + strings.Join(parts, ", ") + ")", nil
	}

	key := strconv.Quote(s.Key)
	v := s.Value

	switch {
	case v.IsNull():
		return "", fmt.Errorf("%s: null value", s.Key)
	case v.Type().Equals(cty.Number):
		return fmt.Sprintf("options.Num(%s, %s)", key, strconv.Quote(v.AsBigFloat().Text('g', -1))), nil
	case v.Type().Equals(cty.String):
		return fmt.Sprintf("options.Str(%s, %s)", key, strconv.Quote(v.AsString())), nil
	case v.Type().Equals(cty.Bool):
		return fmt.Sprintf("options.Bool(%s, %t)", key, v.True()), nil
	}

	typ, err := ctyjson.MarshalType(v.Type())
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.Key, err)
	}

	val, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.Key, err)
	}

	return fmt.Sprintf("options.JSON(%s, %s, %s)", key, quoteRaw(string(typ)), quoteRaw(string(val))), nil
}

func quoteRaw(s string) string {
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}

	return "`" + s + "`"
}
