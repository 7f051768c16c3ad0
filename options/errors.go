package options

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNotRegistered is returned for types with no registered table builder
	// and no fallback.
	ErrNotRegistered = errors.New("options: type not registered")
	// ErrAlreadyRegistered is returned when a type is registered twice.
	ErrAlreadyRegistered = errors.New("options: type already registered")
	// ErrNilBuild is returned when registering a nil BuildFunc.
	ErrNilBuild = errors.New("options: nil build function")
	// ErrDuplicateTarget is returned when a table gets two entries for one target.
	ErrDuplicateTarget = errors.New("options: duplicate target")
	// ErrMixedSettings is returned when sub-addresses and option keys are
	// combined for one value.
	ErrMixedSettings = errors.New("options: sub-addresses cannot be combined with option keys")
	// ErrLayoutMismatch is returned when a table does not match the visible
	// fields of its type.
	ErrLayoutMismatch = errors.New("options: table does not match type layout")
)

// UnknownKeyError reports an option key the value's options record does not
// accept.
type UnknownKeyError struct {
	Type     reflect.Type
	Key      string
	Accepted []string
}

func (e *UnknownKeyError) Error() string {
	if len(e.Accepted) == 0 {
		return fmt.Sprintf("options: %s accepts no options, got %q", typeName(e.Type), e.Key)
	}

	return fmt.Sprintf("options: unknown option %q for %s (accepted: %s)",
		e.Key, typeName(e.Type), strings.Join(e.Accepted, ", "))
}

// ValueError reports a setting whose value does not convert to the record
// field type.
type ValueError struct {
	Key string
	Err error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("options: invalid value for %q: %v", e.Key, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// IndexError reports a sub-address outside the nested type's visible fields.
type IndexError struct {
	Type  reflect.Type
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("options: field index %d out of range for %s with %d visible fields",
		e.Index, typeName(e.Type), e.Len)
}

// TargetError attaches the target being built to an error.
type TargetError struct {
	Target Target
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
