// Package plan compiles annotated type descriptors into options plans
// consumed by code generation.
//
// Compilation pipeline, per type:
//  1. Parse field and type-level directive lists (package attr)
//  2. Assign reflected indices to visible fields (package resolve)
//  3. Compute type parameter bounds and check instances (package bounds)
//  4. Evaluate directive values against the display symbols
//  5. Check settings against statically known field types, recursing
//     through wrappers, sequences and sub-addresses
//  6. Emit diagnostics with the position of the offending directive
package plan
