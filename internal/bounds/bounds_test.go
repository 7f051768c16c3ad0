package bounds

import (
	"go/ast"
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspector-options/internal/schema"
)

func exprs(t *testing.T, srcs ...string) []ast.Expr {
	t.Helper()

	out := make([]ast.Expr, len(srcs))
	for i, s := range srcs {
		e, err := parser.ParseExpr(s)
		require.NoError(t, err)

		out[i] = e
	}

	return out
}

func params(names ...string) []schema.Param {
	out := make([]schema.Param, len(names))
	for i, n := range names {
		out[i] = schema.Param{Name: n}
	}

	return out
}

func ptr(s string) *string { return &s }

func TestCompute_DefaultInjectsOnMentionedParams(t *testing.T) {
	got, err := Compute(params("T", "U", "M"), exprs(t, "T", "[]options.Optional[U]"), nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, Derivable, got[0].Constraint())
	assert.Equal(t, Derivable, got[1].Constraint())
	// M is only used by ignored fields, which are not passed in.
	assert.Equal(t, "any", got[2].Constraint())
	assert.False(t, got[2].Used)
	assert.Equal(t, "[T options.Derivable, U options.Derivable, M any]", TypeParamList(got))
	assert.Equal(t, "[T, U, M]", TypeArgList(got))
}

func TestCompute_SelectorNameIsNotAParam(t *testing.T) {
	got, err := Compute(params("T"), exprs(t, "mathx.T"), nil)
	require.NoError(t, err)
	assert.False(t, got[0].Used)
	assert.Equal(t, "any", got[0].Constraint())
}

func TestCompute_OverrideReplacesInjectedSet(t *testing.T) {
	got, err := Compute(params("T", "P"), exprs(t, "T", "P"), ptr("P Assoc[T]"))
	require.NoError(t, err)

	assert.Equal(t, "any", got[0].Constraint())
	assert.Equal(t, "Assoc[T]", got[1].Constraint())
	assert.False(t, got[1].IsDerivable())
}

func TestCompute_EmptyOverrideMeansNoBounds(t *testing.T) {
	got, err := Compute(params("T"), exprs(t, "T"), ptr(""))
	require.NoError(t, err)

	assert.Equal(t, "any", got[0].Constraint())
	assert.True(t, got[0].Used)
	require.NoError(t, CheckInstance(got, exprs(t, "string")))
}

func TestCompute_OverrideUnknownParam(t *testing.T) {
	_, err := Compute(params("T"), nil, ptr("X any"))
	require.ErrorIs(t, err, ErrUnknownParam)

	_, err = Compute(params("T"), nil, ptr("T any,,"))
	require.Error(t, err)

	_, err = Compute(params("T"), nil, ptr("T any, T comparable"))
	require.Error(t, err)
}

func TestCompute_DeclaredConstraintKept(t *testing.T) {
	ps := []schema.Param{{Name: "T", Constraint: "comparable"}, {Name: "U", Constraint: "any"}}

	got, err := Compute(ps, exprs(t, "T", "U"), nil)
	require.NoError(t, err)

	assert.Equal(t, "interface{ comparable; options.Derivable }", got[0].Constraint())
	assert.Equal(t, Derivable, got[1].Constraint())

	got, err = Compute(ps, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "comparable", got[0].Constraint())
}

func TestParseOverride(t *testing.T) {
	got, err := ParseOverride("A, B any, C interface{ ~int | ~float32 }")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"A": "any",
		"B": "any",
		"C": "interface{~int | ~float32}",
	}, got)
}

func TestCheckInstance(t *testing.T) {
	got, err := Compute(params("T", "U"), exprs(t, "T"), nil)
	require.NoError(t, err)

	require.NoError(t, CheckInstance(got, exprs(t, "float32", "string")))
	require.NoError(t, CheckInstance(got, exprs(t, "options.Quat", "string"), "options.Quat"))

	err = CheckInstance(got, exprs(t, "string", "int"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy options.Derivable")

	assert.Error(t, CheckInstance(got, exprs(t, "int")))
}
