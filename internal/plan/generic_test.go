package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspector-options/internal/diagnostic"
)

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func TestCompile_GenericInstances(t *testing.T) {
	p := mustCompile(t, `
types:
  - name: Pair
    params: [{name: T}, {name: M}]
    fields:
      - {name: A, type: T, inspector: "max = 10"}
      - {name: Marker, type: "[]M", ignore: true}
    instances: ["float32, string", "int, struct{}"]
`)

	tp := p.FindType("Pair")
	require.NotNil(t, tp)
	require.True(t, tp.IsGeneric())
	require.Len(t, tp.Instances, 2)

	assert.Equal(t, "options.Derivable", tp.Bounds[0].Constraint())
	assert.Equal(t, "any", tp.Bounds[1].Constraint())
	assert.Equal(t, "Pair[float32, string]", tp.TypeExpr(tp.Instances[0]))
	assert.Equal(t, ClassParam, tp.Entries[0].Class)
}

func TestCompile_InstanceViolatesDefaultBound(t *testing.T) {
	_, diags := compileYAML(t, `
types:
  - name: Box
    params: [{name: T}]
    fields:
      - {name: V, type: T}
    instances: [string]
`)

	assert.Equal(t, []string{diagnostic.CodeInstanceBounds}, errorCodes(diags))
}

func TestCompile_EmptyOverrideAllowsAnyInstance(t *testing.T) {
	p := mustCompile(t, `
types:
  - name: Box
    params: [{name: T}]
    inspector: 'override_where_clause = ""'
    fields:
      - {name: V, type: T}
    instances: [string]
`)

	tp := p.FindType("Box")
	require.NotNil(t, tp)
	assert.Equal(t, "any", tp.Bounds[0].Constraint())
	require.Len(t, tp.Instances, 1)
}

func TestCompile_OverrideNamesUnknownParam(t *testing.T) {
	_, diags := compileYAML(t, `
types:
  - name: Box
    params: [{name: T}]
    inspector: 'override_where_clause = "X any"'
    fields:
      - {name: V, type: T}
`)

	assert.Equal(t, []string{diagnostic.CodeUnknownParam}, errorCodes(diags))
}

func TestCompile_GenericSettingsCheckedPerInstance(t *testing.T) {
	_, diags := compileYAML(t, `
types:
  - name: Box
    params: [{name: T}]
    fields:
      - {name: V, type: T, inspector: "min = 0.5"}
    instances: [float32, int]
`)

	require.Len(t, diags.Errors, 1)
	assert.Contains(t, diags.Errors[0].Message, "Box[int]")
}

func TestCompile_GenericWithoutInstancesIsInfo(t *testing.T) {
	_, diags := compileYAML(t, `
types:
  - name: Box
    params: [{name: T}]
    fields:
      - {name: V, type: T, inspector: "min = 0"}
`)

	require.False(t, diags.HasErrors())

	var codes []string
	for _, d := range diags.Infos {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, diagnostic.CodeUncheckedGeneric)
	assert.Contains(t, codes, diagnostic.CodeInstanceBounds)
}
