package plan

import (
	"github.com/hashicorp/hcl/v2"

	"inspector-options/internal/attr"
	"inspector-options/options"
)

// EvalContext returns the context directive expressions are evaluated in:
// the registered display symbols (Euler, QuatDisplay.Euler, Slider, ...).
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Variables: options.Symbols()}
}

// Settings evaluates the non-meta directives of list.
func Settings(list attr.List, ctx *hcl.EvalContext) ([]options.Setting, hcl.Diagnostics) {
	var (
		out   []options.Setting
		diags hcl.Diagnostics
	)

	for _, d := range list.Options() {
		v, vd := d.Value(ctx)
		diags = append(diags, vd...)

		if vd.HasErrors() {
			continue
		}

		if !v.IsWhollyKnown() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown value",
				Detail:   "The option " + d.Name() + " must be a constant.",
				Subject:  d.Range.Ptr(),
			})

			continue
		}

		if !d.Sub {
			out = append(out, options.Val(d.Key, v))

			continue
		}

		s, err := options.NestedFromCty(d.Index, v)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid nested options",
				Detail:   err.Error(),
				Subject:  d.Range.Ptr(),
			})

			continue
		}

		out = append(out, s)
	}

	return out, diags
}

// Parse parses and evaluates a directive list in one step.
func Parse(src, filename string, start hcl.Pos) (attr.List, []options.Setting, hcl.Diagnostics) {
	list, diags := attr.Parse(src, filename, start)
	if diags.HasErrors() {
		return list, nil, diags
	}

	settings, vd := Settings(list, EvalContext())

	return list, settings, append(diags, vd...)
}
