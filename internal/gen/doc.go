// Package gen renders compiled plans as Go source.
//
// Generation uses text/template + go/format. Each annotated type gets one
// file, <type>_options.go, holding:
//   - an init function registering every concrete instantiation with
//     options.Default
//   - a builder function, generic over the type's parameters with their
//     computed bounds, that inserts one entry per visible field
//
// Settings are rendered as options.Num, options.Str, options.Bool,
// options.At and options.JSON calls so values are narrowed to field types by
// the same code the compiler checked them with.
package gen
