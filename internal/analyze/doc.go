// Package analyze extracts schemas from annotated Go source.
//
// It uses golang.org/x/tools/go/packages to load packages with syntax and
// type information and emits one schema.File per package. A type takes part
// when its declaration carries the derive directive:
//
//	//inspector:derive
//	//inspector:instance float32, string
//	//inspector:override_where_clause T any
//	type Pair[T any, M any] struct {
//		A      T   `inspector:"max = 10"`
//		Marker []M `inspector:"ignore"`
//	}
//
// Enums are interface types listing their variants in declaration order:
//
//	//inspector:derive
//	//inspector:variants Circle, Empty, Offset
//	type Shape interface{ isShape() }
//
// Field directives come from the `inspector` struct tag.
package analyze
