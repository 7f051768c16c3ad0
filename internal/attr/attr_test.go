package attr

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func mustParse(t *testing.T, src string) List {
	t.Helper()

	list, diags := Parse(src, "Test.B", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())

	return list
}

func TestParse_Assignments(t *testing.T) {
	list := mustParse(t, "min = 2.0, max=3.0, prefix = \"$\"")
	require.Len(t, list.Items, 3)

	assert.Equal(t, "min", list.Items[0].Key)
	assert.Equal(t, "max", list.Items[1].Key)
	assert.Equal(t, "prefix", list.Items[2].Key)

	v, diags := list.Items[0].Value(nil)
	require.False(t, diags.HasErrors())
	assert.True(t, v.Equals(cty.NumberFloatVal(2)).True())

	v, diags = list.Items[2].Value(nil)
	require.False(t, diags.HasErrors())
	assert.Equal(t, "$", v.AsString())
}

func TestParse_FlagEvaluatesTrue(t *testing.T) {
	list := mustParse(t, "collapse, min = 1")
	require.Len(t, list.Items, 2)

	assert.True(t, list.Items[0].Flag)
	v, _ := list.Items[0].Value(nil)
	assert.True(t, v.True())
}

func TestParse_SubAddress(t *testing.T) {
	list := mustParse(t, "0 = { min = 0 }, 1 = { max = 5, speed = 0.1 }")
	require.Len(t, list.Items, 2)

	assert.True(t, list.Items[0].Sub)
	assert.Equal(t, 0, list.Items[0].Index)
	assert.Empty(t, list.Items[0].Key)
	assert.Equal(t, "1", list.Items[1].Name())

	v, diags := list.Items[1].Value(nil)
	require.False(t, diags.HasErrors())
	assert.True(t, v.Type().IsObjectType())
	assert.True(t, v.GetAttr("max").Equals(cty.NumberIntVal(5)).True())
}

func TestParse_SubAddressNeedsObject(t *testing.T) {
	_, diags := Parse("0 = 5", "T.F", hcl.InitialPos)
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Error(), "must be assigned an object")

	_, diags = Parse("0", "T.F", hcl.InitialPos)
	require.True(t, diags.HasErrors())
}

func TestParse_NestedCommasStayInOneItem(t *testing.T) {
	list := mustParse(t, `label = "a, b", 0 = { min = 0, max = 1 }, display = Euler`)
	require.Len(t, list.Items, 3)

	v, _ := list.Items[0].Value(nil)
	assert.Equal(t, "a, b", v.AsString())
	assert.Equal(t, "display", list.Items[2].Key)
}

func TestParse_TrailingCommaAllowed(t *testing.T) {
	list := mustParse(t, "min = 1,")
	assert.Len(t, list.Items, 1)

	list = mustParse(t, "")
	assert.Empty(t, list.Items)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty item", "min = 1,, max = 2", "Empty option"},
		{"missing value", "min =", "Missing value"},
		{"missing equals", "min 1", "Missing '='"},
		{"bad key", "-min = 1", "Invalid option key"},
		{"mixed index", "0a = { }", "Invalid field index"},
		{"duplicate", "min = 1, min = 2", "Duplicate option"},
		{"bad expression", "min = (1", ""},
		{"comparison is not assignment", "min == 1", "Missing '='"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.src, "Test.B", hcl.InitialPos)
			require.True(t, diags.HasErrors())

			if tt.want != "" {
				assert.Contains(t, diags.Error(), tt.want)
			}
		})
	}
}

func TestParse_DiagnosticPointsAtKey(t *testing.T) {
	_, diags := Parse("min = 1, min = 2", "Test.B", hcl.InitialPos)
	require.Len(t, diags, 1)

	subj := diags[0].Subject
	require.NotNil(t, subj)
	assert.Equal(t, "Test.B", subj.Filename)
	assert.Equal(t, 10, subj.Start.Column)
	assert.Equal(t, 9, subj.Start.Byte)
}

func TestList_Meta(t *testing.T) {
	list := mustParse(t, `ignore, min = 1`)
	ignored, diags := list.Ignore()
	require.False(t, diags.HasErrors())
	assert.True(t, ignored)
	require.Len(t, list.Options(), 1)
	assert.Equal(t, "min", list.Options()[0].Key)

	list = mustParse(t, `ignore = false`)
	ignored, diags = list.Ignore()
	require.False(t, diags.HasErrors())
	assert.False(t, ignored)

	for _, src := range []string{`ignore = 1`, `ignore = "no"`} {
		ignored, diags = mustParse(t, src).Ignore()
		assert.True(t, diags.HasErrors(), src)
		assert.False(t, ignored, src)
	}

	list = mustParse(t, `override_where_clause = ""`)
	clause, ok, diags := list.OverrideWhereClause()
	require.False(t, diags.HasErrors())
	assert.True(t, ok)
	assert.Empty(t, clause)
	assert.Empty(t, list.Options())

	list = mustParse(t, `override_where_clause = 3`)
	_, ok, diags = list.OverrideWhereClause()
	assert.True(t, ok)
	assert.True(t, diags.HasErrors())
}

func TestHasFlag(t *testing.T) {
	assert.True(t, HasFlag("ignore", KeyIgnore))
	assert.True(t, HasFlag("min = 1, ignore", KeyIgnore))
	assert.False(t, HasFlag("min = 1", KeyIgnore))
	assert.False(t, HasFlag("ignore = false", KeyIgnore))
	assert.False(t, HasFlag("ignore = 1", KeyIgnore))
	assert.True(t, HasFlag("collapse", "collapse"))
	assert.False(t, HasFlag("min = (", KeyIgnore))
}
