package plan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"github.com/hashicorp/hcl/v2"

	"inspector-options/internal/attr"
	"inspector-options/internal/bounds"
	"inspector-options/internal/diagnostic"
	"inspector-options/internal/resolve"
	"inspector-options/internal/schema"
	"inspector-options/options"
)

// QuatNames are the spellings of options.Quat accepted in field types.
var QuatNames = []string{"options.Quat"}

// Compile compiles a schema file. The returned plan is nil only when the
// file is structurally invalid; otherwise types with errors are left out
// and reported in the diagnostics.
func Compile(f *schema.File) (*Plan, diagnostic.Diagnostics) {
	res := Validate(f)
	if res.HasErrors() {
		return nil, res
	}

	c := &compiler{file: f, ctx: EvalContext()}
	c.diags.Merge(res)

	p := &Plan{Package: f.Package, Imports: f.Imports}

	for i := range f.Types {
		tp, ok := c.compileType(&f.Types[i])
		if ok {
			p.Types = append(p.Types, tp)
		}
	}

	p.Diagnostics = c.diags

	return p, c.diags
}

// Validate runs the structural schema checks.
func Validate(f *schema.File) diagnostic.Diagnostics {
	return *schema.Validate(f)
}

type compiler struct {
	file  *schema.File
	ctx   *hcl.EvalContext
	diags diagnostic.Diagnostics
}

// field is a parsed schema field.
type field struct {
	src      schema.Field
	path     string
	list     attr.List
	settings []options.Setting
	expr     ast.Expr
	ignored  bool
}

func (c *compiler) compileType(t *schema.Type) (TypePlan, bool) {
	before := len(c.diags.Errors)

	tp := TypePlan{Name: t.Name, Kind: t.Kind}

	override := c.typeDirectives(t)

	var (
		slots    []resolve.VariantSlot[*field]
		visible  []ast.Expr
		variants [][]*field
	)

	switch t.Kind {
	case schema.KindEnum:
		for vi, v := range t.Variants {
			fields := c.parseFields(t, v.Name+".", v.Fields)
			variants = append(variants, fields)

			n := len(resolve.Visible(fields, isIgnored))
			tp.Variants = append(tp.Variants, VariantPlan{Name: v.Name, Index: vi, Visible: n})
		}

		slots = resolve.Variants(variants, func(fs []*field) []*field { return fs }, isIgnored)
	default:
		fields := c.parseFields(t, "", t.Fields)
		for _, s := range resolve.Visible(fields, isIgnored) {
			slots = append(slots, resolve.VariantSlot[*field]{Slot: s})
		}
	}

	for _, s := range slots {
		visible = append(visible, s.Field.expr)
	}

	bs, err := bounds.Compute(t.Params, visible, override)
	if err != nil {
		code := diagnostic.CodeWhereClause
		if errors.Is(err, bounds.ErrUnknownParam) {
			code = diagnostic.CodeUnknownParam
		}

		c.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     code,
			Message:  err.Error(),
			Type:     t.Name,
			Pos:      t.Pos.String(),
		})

		return tp, false
	}

	tp.Bounds = bs
	tp.Instances = c.instances(t, bs)

	for _, s := range slots {
		target := options.Field(s.Reflected)
		if t.Kind == schema.KindEnum {
			target = options.VariantField(s.Variant, s.Reflected)
		}

		tp.Entries = append(tp.Entries, EntryPlan{
			Target:   target,
			Name:     s.Field.src.Name,
			Field:    s.Field.path,
			Type:     s.Field.src.Type,
			Class:    c.classify(t, s.Field.expr),
			Settings: s.Field.settings,
		})

		c.checkField(t, bs, tp.Instances, s.Field)
	}

	if len(slots) == 0 && t.Kind == schema.KindStruct {
		c.diags.AddInfo(diagnostic.CodeNoVisibleFields, "type has no visible fields; its table is empty", t.Name, "")
	}

	return tp, len(c.diags.Errors) == before
}

// typeDirectives parses the type-level directive list and returns the
// override clause, nil when absent.
func (c *compiler) typeDirectives(t *schema.Type) *string {
	if t.Inspector == "" {
		return nil
	}

	list, diags := attr.Parse(t.Inspector, t.Pos.File, t.Pos.HCL())
	c.diags.AddHCL(diags, diagnostic.CodeSyntax, t.Name, "")

	if diags.HasErrors() {
		return nil
	}

	for _, d := range list.Items {
		if d.Key == attr.KeyOverrideWhereClause {
			continue
		}

		c.diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        diagnostic.CodeUnknownKey,
			Message:     fmt.Sprintf("unknown type-level directive %q", d.Name()),
			Type:        t.Name,
			Pos:         diagnostic.FormatPos(d.KeyRange),
			Suggestions: []string{attr.KeyOverrideWhereClause},
		})
	}

	clause, ok, diags := list.OverrideWhereClause()
	c.diags.AddHCL(diags, diagnostic.CodeWhereClause, t.Name, "")

	if !ok || diags.HasErrors() {
		return nil
	}

	return &clause
}

func (c *compiler) parseFields(t *schema.Type, prefix string, fields []schema.Field) []*field {
	out := make([]*field, 0, len(fields))

	for _, sf := range fields {
		fd := &field{src: sf, path: prefix + sf.Name}

		list, diags := attr.Parse(sf.Inspector, sf.Pos.File, sf.Pos.HCL())
		c.diags.AddHCL(sf.Pos.Diagnostics(diags), diagnostic.CodeSyntax, t.Name, fd.path)

		ignored, id := list.Ignore()
		c.diags.AddHCL(sf.Pos.Diagnostics(id), diagnostic.CodeTypeMismatch, t.Name, fd.path)

		fd.list = list
		fd.ignored = sf.Ignore || ignored

		if !fd.ignored && (sf.Name == "_" || !token.IsExported(sf.Name)) {
			fd.ignored = true

			if len(list.Options()) > 0 {
				c.diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticWarning,
					Code:     diagnostic.CodeUnexportedIgnored,
					Message:  "unexported field is invisible to reflection; its options are dropped",
					Type:     t.Name,
					Field:    fd.path,
					Pos:      sf.Pos.String(),
				})
			}
		}

		if expr, err := schema.ParseTypeExpr(sf.Type); err == nil {
			fd.expr = expr
		}

		if !fd.ignored && !diags.HasErrors() {
			settings, vd := Settings(list, c.ctx)
			c.diags.AddHCL(sf.Pos.Diagnostics(vd), diagnostic.CodeSyntax, t.Name, fd.path)
			fd.settings = settings
		}

		out = append(out, fd)
	}

	return out
}

func isIgnored(f *field) bool {
	return f.ignored
}

// instances returns the instantiations to register.
func (c *compiler) instances(t *schema.Type, bs []bounds.Bound) []Instance {
	if !t.IsGeneric() {
		return []Instance{{}}
	}

	if t.Instances.IsEmpty() {
		c.diags.AddInfo(diagnostic.CodeInstanceBounds,
			"generic type has no instances; register instantiations at runtime", t.Name, "")
	}

	var out []Instance

	for _, inst := range t.Instances {
		args, err := schema.InstanceArgs(inst)
		if err != nil {
			c.diags.AddError(diagnostic.CodeInvalidSchema, fmt.Sprintf("instance %q: %v", inst, err), t.Name, "")
			continue
		}

		if err := bounds.CheckInstance(bs, args, QuatNames...); err != nil {
			c.diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodeInstanceBounds,
				Message:  fmt.Sprintf("instance %s[%s]: %v", t.Name, inst, err),
				Type:     t.Name,
				Pos:      t.Pos.String(),
			})

			continue
		}

		rendered := make([]string, len(args))
		for i, a := range args {
			rendered[i] = exprString(a)
		}

		out = append(out, Instance{Args: rendered})
	}

	return out
}
