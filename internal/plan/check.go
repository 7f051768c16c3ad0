package plan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"inspector-options/internal/attr"
	"inspector-options/internal/bounds"
	"inspector-options/internal/diagnostic"
	"inspector-options/internal/match"
	"inspector-options/internal/resolve"
	"inspector-options/internal/schema"
	"inspector-options/options"
	"inspector-options/primitive"
)

// errUnchecked marks settings whose field type is only known at runtime.
var errUnchecked = errors.New("field type is resolved at runtime")

// unresolvedError marks settings on a type the schema does not describe and
// that has no builtin options record. Its capability, if any, is registered
// at runtime.
type unresolvedError struct {
	typ string
}

func (e *unresolvedError) Error() string {
	return fmt.Sprintf("%s is not described by the schema and has no builtin options record", e.typ)
}

// checkError is a static check failure tied to an option key.
type checkError struct {
	code string
	key  string
	msg  string
}

func (e *checkError) Error() string { return e.msg }

// builtinType returns the reflected type of a predeclared type name.
func builtinType(name string) (reflect.Type, bool) {
	switch name {
	case "any":
		return reflect.TypeFor[any](), true
	case "error":
		return reflect.TypeFor[error](), true
	}

	rt := primitive.FromName(name).Type()

	return rt, rt != nil
}

func builtinCapable(name string) bool {
	rt, ok := builtinType(name)

	return ok && options.Capable(rt)
}

func (c *compiler) classify(t *schema.Type, expr ast.Expr) FieldClass {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return c.classify(t, e.X)
	case *ast.Ident:
		switch {
		case slices.Contains(t.ParamNames(), e.Name):
			return ClassParam
		case builtinCapable(e.Name):
			return ClassBuiltin
		case c.file.FindType(e.Name) != nil:
			return ClassNamed
		}
	case *ast.SelectorExpr:
		if slices.Contains(QuatNames, exprString(e)) {
			return ClassBuiltin
		}
	case *ast.StarExpr:
		return ClassWrapper
	case *ast.IndexExpr, *ast.IndexListExpr:
		x, _ := indexParts(e)
		if isOptional(x) {
			return ClassWrapper
		}

		if id, ok := x.(*ast.Ident); ok && c.file.FindType(id.Name) != nil {
			return ClassNamed
		}
	case *ast.ArrayType:
		return ClassSequence
	}

	return ClassOther
}

// checkField statically checks the settings of a visible field. Generic
// fields are checked once per listed instance.
func (c *compiler) checkField(t *schema.Type, bs []bounds.Bound, instances []Instance, fd *field) {
	if len(fd.settings) == 0 || fd.expr == nil {
		return
	}

	_, rest, err := options.SplitDecoration(fd.settings)
	if err != nil {
		c.report(t, fd, err, "")

		return
	}

	if len(rest) == 0 {
		return
	}

	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}

	generic := false
	for _, used := range bounds.Mentioned([]ast.Expr{fd.expr}, names) {
		generic = generic || used
	}

	if !generic {
		if err := c.check(fd.expr, rest, nil); err != nil {
			c.report(t, fd, err, "")
		}

		return
	}

	if len(instances) == 0 {
		c.report(t, fd, errUnchecked, "")

		return
	}

	for _, inst := range instances {
		subst := make(map[string]ast.Expr, len(names))

		for i, a := range inst.Args {
			e, err := parser.ParseExpr(a)
			if err != nil {
				continue
			}

			subst[names[i]] = e
		}

		if err := c.check(fd.expr, rest, subst); err != nil {
			c.report(t, fd, err, t.Name+"["+strings.Join(inst.Args, ", ")+"]")
		}
	}
}

// check validates settings against the type expr.
func (c *compiler) check(expr ast.Expr, settings []options.Setting, subst map[string]ast.Expr) error {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return c.check(e.X, settings, subst)
	case *ast.Ident:
		if s, ok := subst[e.Name]; ok {
			return c.check(s, settings, nil)
		}

		if rt, ok := builtinType(e.Name); ok {
			_, err := options.Build(rt, settings)

			return err
		}

		if nt := c.file.FindType(e.Name); nt != nil {
			return c.checkNamed(nt, settings, nil, subst)
		}

		return &unresolvedError{typ: e.Name}
	case *ast.SelectorExpr:
		if slices.Contains(QuatNames, exprString(e)) {
			_, err := options.Build(reflect.TypeFor[options.Quat](), settings)

			return err
		}

		return &unresolvedError{typ: exprString(e)}
	case *ast.StarExpr:
		return c.check(e.X, settings, subst)
	case *ast.IndexExpr, *ast.IndexListExpr:
		x, args := indexParts(e)
		if isOptional(x) && len(args) == 1 {
			return c.check(args[0], settings, subst)
		}

		if id, ok := x.(*ast.Ident); ok {
			if nt := c.file.FindType(id.Name); nt != nil {
				return c.checkNamed(nt, settings, args, subst)
			}
		}

		return &unresolvedError{typ: exprString(e)}
	case *ast.ArrayType:
		switch c.capable(e.Elt, subst) {
		case capYes:
			return c.check(e.Elt, settings, subst)
		case capNo:
			return &checkError{
				code: diagnostic.CodeNotComposite,
				key:  settings[0].Name(),
				msg:  fmt.Sprintf("%s takes no options: its element type has no options record", exprString(e)),
			}
		default:
			return c.check(e.Elt, settings, subst)
		}
	default:
		return &checkError{
			code: diagnostic.CodeNotComposite,
			key:  settings[0].Name(),
			msg:  fmt.Sprintf("%s takes no options", exprString(expr)),
		}
	}
}

// checkNamed checks sub-addresses against a schema type's visible fields.
// args instantiate nt's parameters; they are evaluated in subst.
func (c *compiler) checkNamed(nt *schema.Type, settings []options.Setting, args []ast.Expr, subst map[string]ast.Expr) error {
	for _, s := range settings {
		if !s.Sub {
			if slices.ContainsFunc(settings, func(o options.Setting) bool { return o.Sub }) {
				return fmt.Errorf("%s: %w", s.Key, options.ErrMixedSettings)
			}

			return &checkError{
				code: diagnostic.CodeUnknownKey,
				key:  s.Key,
				msg:  fmt.Sprintf("%s accepts no options, got %q; address its fields by index", nt.Name, s.Key),
			}
		}
	}

	if nt.IsEnum() {
		return &checkError{
			code: diagnostic.CodeNotComposite,
			key:  settings[0].Name(),
			msg:  fmt.Sprintf("enum %s cannot be sub-addressed; annotate its variant fields", nt.Name),
		}
	}

	inner := map[string]ast.Expr{}

	for i, p := range nt.Params {
		if i >= len(args) {
			break
		}

		inner[p.Name] = substitute(args[i], subst)
	}

	visible := resolve.Visible(nt.Fields, func(f schema.Field) bool {
		return f.Ignored() || f.Name == "_" || !token.IsExported(f.Name)
	})

	for _, s := range settings {
		if s.Index < 0 || s.Index >= len(visible) {
			return &checkError{
				code: diagnostic.CodeIndexOutOfRange,
				key:  s.Name(),
				msg:  fmt.Sprintf("field index %d out of range for %s with %d visible fields", s.Index, nt.Name, len(visible)),
			}
		}

		expr, err := schema.ParseTypeExpr(visible[s.Index].Field.Type)
		if err != nil {
			return errUnchecked
		}

		if len(s.Nested) == 0 {
			continue
		}

		if err := c.check(expr, s.Nested, inner); err != nil {
			var ue *unresolvedError
			if errors.Is(err, errUnchecked) || errors.As(err, &ue) {
				return err
			}

			return fmt.Errorf("%s.%s: %w", nt.Name, visible[s.Index].Field.Name, err)
		}
	}

	return nil
}

type capability int

const (
	capUnknown capability = iota
	capYes
	capNo
)

// capable reports whether values of expr have an options capability.
func (c *compiler) capable(expr ast.Expr, subst map[string]ast.Expr) capability {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return c.capable(e.X, subst)
	case *ast.Ident:
		if s, ok := subst[e.Name]; ok {
			return c.capable(s, nil)
		}

		if rt, ok := builtinType(e.Name); ok {
			if options.Capable(rt) {
				return capYes
			}

			return capNo
		}

		if c.file.FindType(e.Name) != nil {
			return capNo
		}
	case *ast.SelectorExpr:
		if slices.Contains(QuatNames, exprString(e)) {
			return capYes
		}
	case *ast.StarExpr:
		return capYes
	case *ast.IndexExpr, *ast.IndexListExpr:
		x, _ := indexParts(e)
		if isOptional(x) {
			return capYes
		}

		if id, ok := x.(*ast.Ident); ok && c.file.FindType(id.Name) != nil {
			return capNo
		}
	case *ast.ArrayType:
		return c.capable(e.Elt, subst)
	case *ast.MapType, *ast.FuncType, *ast.ChanType, *ast.InterfaceType, *ast.StructType:
		return capNo
	}

	return capUnknown
}

// report converts a check error into a diagnostic located at the
// directive it concerns.
func (c *compiler) report(t *schema.Type, fd *field, err error, instance string) {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeTypeMismatch,
		Message:  err.Error(),
		Type:     t.Name,
		Field:    fd.path,
		Pos:      fd.src.Pos.String(),
	}

	if instance != "" {
		d.Message = instance + ": " + d.Message
	}

	key := ""

	var (
		ue *unresolvedError
		ce *checkError
		uk *options.UnknownKeyError
		ve *options.ValueError
		ie *options.IndexError
	)

	switch {
	case errors.Is(err, errUnchecked):
		d.Severity = diagnostic.DiagnosticInfo
		d.Code = diagnostic.CodeUncheckedGeneric
		d.Message = "options are checked when the table is built: " + err.Error()
	case errors.As(err, &ue):
		d.Severity = diagnostic.DiagnosticWarning
		d.Code = diagnostic.CodeUncheckedType
		d.Message = "options are checked when the table is built: " + err.Error()
		d.Suggestions = []string{"declare " + ue.typ + " in the schema", "register its capability with options.RegisterCapability"}

		if len(fd.settings) > 0 {
			key = fd.settings[0].Name()
		}
	case errors.As(err, &ce):
		d.Code, key = ce.code, ce.key
	case errors.As(err, &uk):
		d.Code, key = diagnostic.CodeUnknownKey, uk.Key
		d.Suggestions = match.Suggest(uk.Key, append(uk.Accepted, options.KeyLabel, options.KeyCollapse), 3)
	case errors.As(err, &ve):
		key = ve.Key
	case errors.As(err, &ie):
		d.Code, key = diagnostic.CodeIndexOutOfRange, fmt.Sprint(ie.Index)
	case errors.Is(err, options.ErrMixedSettings):
		d.Code = diagnostic.CodeMixedSettings
	}

	if dir, ok := directiveFor(fd.list, key); ok {
		d.Pos = diagnostic.FormatPos(fd.src.Pos.Range(dir.KeyRange))
	}

	c.diags.Add(d)
}

// directiveFor finds the top-level directive a key belongs to: the
// directive itself, or else the first sub-address.
func directiveFor(list attr.List, key string) (attr.Directive, bool) {
	for _, d := range list.Items {
		if key != "" && d.Name() == key {
			return d, true
		}
	}

	for _, d := range list.Items {
		if d.Sub {
			return d, true
		}
	}

	return attr.Directive{}, false
}

func indexParts(e ast.Expr) (ast.Expr, []ast.Expr) {
	switch e := e.(type) {
	case *ast.IndexExpr:
		return e.X, []ast.Expr{e.Index}
	case *ast.IndexListExpr:
		return e.X, e.Indices
	}

	return nil, nil
}

func isOptional(x ast.Expr) bool {
	return exprString(x) == "options.Optional"
}

// substitute replaces parameter identifiers in e.
func substitute(e ast.Expr, subst map[string]ast.Expr) ast.Expr {
	if id, ok := e.(*ast.Ident); ok {
		if s, ok := subst[id.Name]; ok {
			return s
		}
	}

	return e
}

func exprString(e ast.Expr) string {
	if e == nil {
		return ""
	}

	return types.ExprString(e)
}
