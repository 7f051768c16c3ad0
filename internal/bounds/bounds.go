// Package bounds computes the constraints placed on type parameters of
// generated options builders.
//
// By default every type parameter mentioned in the type of a visible field
// gets options.Derivable, so the builder only instantiates where each such
// field has a builtin options record. Parameters only used by ignored fields
// (markers, phantom types) stay unbounded. An override clause replaces the
// injected set:
//
//	override_where_clause = "T any, P Assoc"
//	override_where_clause = ""  // no injected bounds at all
//
// Declared constraints are always kept and combined with injected ones.
package bounds

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"inspector-options/internal/schema"
)

// Derivable is the injected constraint, spelled as generated code imports it.
const Derivable = "options.Derivable"

// ErrUnknownParam is returned when an override names a parameter the type
// does not declare.
var ErrUnknownParam = errors.New("unknown type parameter")

// Bound is the computed constraint of one type parameter.
type Bound struct {
	Name string
	// Declared is the constraint written on the type; empty means any.
	Declared string
	// Injected is the constraint added for the options builder; empty means
	// none.
	Injected string
	// Used reports whether a visible field mentions the parameter.
	Used bool
}

// Constraint returns the constraint to emit on the builder's type parameter.
func (b Bound) Constraint() string {
	declared := b.Declared
	if declared == "any" || declared == "interface{}" {
		declared = ""
	}

	switch {
	case declared == "" && b.Injected == "":
		return "any"
	case declared == "":
		return b.Injected
	case b.Injected == "" || b.Injected == "any":
		return declared
	default:
		return fmt.Sprintf("interface{ %s; %s }", declared, b.Injected)
	}
}

// IsDerivable reports whether values of the parameter are known to have a
// builtin options record.
func (b Bound) IsDerivable() bool {
	return b.Injected == Derivable
}

// Compute returns one Bound per parameter. fieldTypes are the type
// expressions of visible fields; override is the type's
// override_where_clause, nil when absent.
func Compute(params []schema.Param, fieldTypes []ast.Expr, override *string) ([]Bound, error) {
	out := make([]Bound, len(params))
	names := make([]string, len(params))

	for i, p := range params {
		out[i] = Bound{Name: p.Name, Declared: strings.TrimSpace(p.Constraint)}
		names[i] = p.Name
	}

	used := Mentioned(fieldTypes, names)
	for i := range out {
		out[i].Used = used[out[i].Name]
	}

	if override != nil {
		clause, err := ParseOverride(*override)
		if err != nil {
			return nil, err
		}

		for name := range clause {
			if !slices.Contains(names, name) {
				return nil, fmt.Errorf("override_where_clause: %w %q", ErrUnknownParam, name)
			}
		}

		for i := range out {
			out[i].Injected = clause[out[i].Name]
		}

		return out, nil
	}

	for i := range out {
		if out[i].Used {
			out[i].Injected = Derivable
		}
	}

	return out, nil
}

// Mentioned reports which of names occur in exprs. Selector names
// (pkg.T) do not count.
func Mentioned(exprs []ast.Expr, names []string) map[string]bool {
	out := make(map[string]bool, len(names))

	for _, e := range exprs {
		if e == nil {
			continue
		}

		ast.Inspect(e, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.SelectorExpr:
				ast.Inspect(n.X, func(m ast.Node) bool {
					if id, ok := m.(*ast.Ident); ok && slices.Contains(names, id.Name) {
						out[id.Name] = true
					}

					return true
				})

				return false
			case *ast.Ident:
				if slices.Contains(names, n.Name) {
					out[n.Name] = true
				}
			}

			return true
		})
	}

	return out
}

// ParseOverride parses an override clause written as a type parameter list
// ("T any, P Assoc[T]"). It maps each parameter to its constraint.
func ParseOverride(clause string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(clause) == "" {
		return out, nil
	}

	src := "package p\ntype _[" + clause + "] struct{}\n"

	f, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil {
		return nil, fmt.Errorf("override_where_clause %q: %w", clause, err)
	}

	spec, ok := typeSpec(f)
	if !ok || spec.TypeParams == nil {
		return nil, fmt.Errorf("override_where_clause %q: expected a type parameter list", clause)
	}

	for _, field := range spec.TypeParams.List {
		constraint := types.ExprString(field.Type)

		for _, n := range field.Names {
			if _, dup := out[n.Name]; dup {
				return nil, fmt.Errorf("override_where_clause %q: parameter %s listed twice", clause, n.Name)
			}

			out[n.Name] = constraint
		}
	}

	return out, nil
}

func typeSpec(f *ast.File) (*ast.TypeSpec, bool) {
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || len(gd.Specs) != 1 {
			continue
		}

		ts, ok := gd.Specs[0].(*ast.TypeSpec)

		return ts, ok
	}

	return nil, false
}

// TypeParamList renders bounds as a type parameter list for a generated
// function, e.g. "[T options.Derivable, U any]". Empty for no bounds.
func TypeParamList(bounds []Bound) string {
	if len(bounds) == 0 {
		return ""
	}

	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = b.Name + " " + b.Constraint()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeArgList renders the parameter names as a type argument list, e.g.
// "[T, U]".
func TypeArgList(bounds []Bound) string {
	if len(bounds) == 0 {
		return ""
	}

	names := make([]string, len(bounds))
	for i, b := range bounds {
		names[i] = b.Name
	}

	return "[" + strings.Join(names, ", ") + "]"
}
