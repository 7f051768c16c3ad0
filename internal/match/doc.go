// Package match provides name normalization and Levenshtein distance
// calculation, used to suggest option keys and field names when an
// annotation does not match.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks close candidates for an unknown name
package match
