package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"inspector-options/internal/common"
)

// Diagnostic codes.
const (
	CodeSyntax            = "syntax"
	CodeUnknownKey        = "unknown_key"
	CodeTypeMismatch      = "type_mismatch"
	CodeIndexOutOfRange   = "index_out_of_range"
	CodeMixedSettings     = "mixed_settings"
	CodeNotComposite      = "not_composite"
	CodeWhereClause       = "where_clause"
	CodeUnknownParam      = "unknown_param"
	CodeUnsupportedType   = "unsupported_type"
	CodeDuplicate         = "duplicate"
	CodeInstanceBounds    = "instance_bounds"
	CodeInvalidSchema     = "invalid_schema"
	CodeUncheckedGeneric  = "unchecked_generic"
	CodeUncheckedType     = "unchecked_type"
	CodeNoVisibleFields   = "no_visible_fields"
	CodeUnexportedIgnored = "unexported_ignored"
)

// Diagnostics holds all diagnostic information from compilation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Type names the annotated type (if any).
	Type string
	// Field names the field or variant field (if any).
	Field string
	// Pos locates the directive, as file:line:column.
	Pos string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d by severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typeName, field string) {
	d.Add(Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Field:    field,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typeName, field string) {
	d.Add(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Field:    field,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typeName, field string) {
	d.Add(Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Field:    field,
	})
}

// AddHCL converts parser diagnostics, attributing them to typeName and field.
func (d *Diagnostics) AddHCL(diags hcl.Diagnostics, code, typeName, field string) {
	for _, h := range diags {
		sev := DiagnosticError
		if h.Severity == hcl.DiagWarning {
			sev = DiagnosticWarning
		}

		msg := h.Summary
		if h.Detail != "" {
			msg += ": " + h.Detail
		}

		diag := Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Type:     typeName,
			Field:    field,
		}

		if h.Subject != nil {
			diag.Pos = FormatPos(*h.Subject)
		}

		d.Add(diag)
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos != "" {
		prefix = append(prefix, d.Pos+":")
	}

	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// FormatPos renders the start of r as file:line:column.
func FormatPos(r hcl.Range) string {
	if r.Filename == "" {
		return fmt.Sprintf("%d:%d", r.Start.Line, r.Start.Column)
	}

	return fmt.Sprintf("%s:%d:%d", r.Filename, r.Start.Line, r.Start.Column)
}
