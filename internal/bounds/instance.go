package bounds

import (
	"fmt"
	"go/ast"
	"go/types"

	"inspector-options/primitive"
)

// SatisfiesDerivable reports whether a type argument is known to satisfy
// options.Derivable. quatNames are the spellings of the quaternion type in
// the generated package's scope.
func SatisfiesDerivable(arg ast.Expr, quatNames ...string) bool {
	if id, ok := arg.(*ast.Ident); ok && primitive.FromName(id.Name).IsNumber() {
		return true
	}

	s := types.ExprString(arg)
	for _, q := range quatNames {
		if s == q {
			return true
		}
	}

	return false
}

// CheckInstance verifies the type arguments of one instance against the
// injected bounds. Declared and overridden constraints are left to the Go
// compiler.
func CheckInstance(bounds []Bound, args []ast.Expr, quatNames ...string) error {
	if len(args) != len(bounds) {
		return fmt.Errorf("got %d type arguments, want %d", len(args), len(bounds))
	}

	for i, b := range bounds {
		if !b.IsDerivable() {
			continue
		}

		if !SatisfiesDerivable(args[i], quatNames...) {
			return fmt.Errorf("type argument %s for %s does not satisfy %s; "+
				"set override_where_clause to change the bound",
				types.ExprString(args[i]), b.Name, Derivable)
		}
	}

	return nil
}
