package analyze

import (
	"go/ast"
	"strings"
)

// Comment directives recognized on type declarations.
const (
	DirectivePrefix = "//inspector:"

	DirectiveDerive              = "derive"
	DirectiveInstance            = "instance"
	DirectiveVariants            = "variants"
	DirectiveOverrideWhereClause = "override_where_clause"
)

// Directive is one comment directive with its argument text.
type Directive struct {
	Name string
	Arg  string
	Pos  ast.Node
}

// Directives returns the inspector directives of the given comment groups,
// in source order.
func Directives(groups ...*ast.CommentGroup) []Directive {
	var out []Directive

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
			if !ok {
				continue
			}

			name, arg, _ := strings.Cut(rest, " ")
			out = append(out, Directive{
				Name: strings.TrimSpace(name),
				Arg:  strings.TrimSpace(arg),
				Pos:  c,
			})
		}
	}

	return out
}

// Has reports whether ds contains a directive with the given name.
func Has(ds []Directive, name string) bool {
	for _, d := range ds {
		if d.Name == name {
			return true
		}
	}

	return false
}

// splitList splits a comma separated list of names.
func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
