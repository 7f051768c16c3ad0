// Package derive builds options tables at runtime from struct tags.
//
// It is the reflection counterpart of inspector-gen: the same directive
// parser, options capabilities and reflected-index rules apply, but tables
// are built on first use instead of from generated code.
//
//	type Player struct {
//		Health float32 `inspector:"min = 0, max = 100"`
//		Debug  bool    `inspector:"ignore"`
//	}
//
//	derive.Install(options.Default())
//	v, ok := options.Default().Lookup(reflect.TypeFor[Player](), options.Field(0))
//
// Enums are interfaces whose variants are listed explicitly:
//
//	table, err := derive.Enum[Shape](Circle{}, Empty{})
package derive
