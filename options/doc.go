// Package options is the runtime side of inspector options: typed metadata
// (numeric ranges, display modes, labels) attached to the fields of
// user-defined types and looked up by structural position.
//
// A Table maps Targets to type-erased Values. Tables are built once per
// concrete type by a BuildFunc, either generated by inspector-gen or derived
// by reflection (package derive), and cached in a Registry:
//
//	table, err := options.TableOf[Config]()
//	if err != nil {
//		return err
//	}
//	if v, ok := options.Lookup(table, options.Field(0)); ok {
//		if num, ok := options.Downcast[options.NumberOptions[float32]](v); ok {
//			// render a bounded drag value
//		}
//	}
//
// Targets count only reflection-visible fields, see VisibleFields.
package options
