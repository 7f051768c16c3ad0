// Package diagnostic provides structured errors and warnings for
// inspector option compilation.
//
// Every diagnostic names the type and field it concerns and, when known,
// the source position of the offending directive, so that a bad annotation
// is reported at compile time with a pointer into the user's code.
package diagnostic
