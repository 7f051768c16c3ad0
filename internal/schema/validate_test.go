package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspector-options/internal/diagnostic"
)

func codes(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}

	return out
}

func TestValidate_Sample(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	res := Validate(f)
	assert.False(t, res.HasErrors(), res.Error())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  File
		code  string
		field string
	}{
		{
			name: "duplicate type",
			file: File{Types: []Type{{Name: "A", Kind: KindStruct}, {Name: "A", Kind: KindStruct}}},
			code: diagnostic.CodeDuplicate,
		},
		{
			name: "unknown kind",
			file: File{Types: []Type{{Name: "A", Kind: "union"}}},
			code: diagnostic.CodeInvalidSchema,
		},
		{
			name:  "duplicate field",
			file:  File{Types: []Type{{Name: "A", Kind: KindStruct, Fields: []Field{{Name: "X", Type: "int"}, {Name: "X", Type: "int"}}}}},
			code:  diagnostic.CodeDuplicate,
			field: "X",
		},
		{
			name:  "bad field type",
			file:  File{Types: []Type{{Name: "A", Kind: KindStruct, Fields: []Field{{Name: "X", Type: "map[int"}}}}},
			code:  diagnostic.CodeInvalidSchema,
			field: "X",
		},
		{
			name:  "missing field type",
			file:  File{Types: []Type{{Name: "A", Kind: KindStruct, Fields: []Field{{Name: "X"}}}}},
			code:  diagnostic.CodeInvalidSchema,
			field: "X",
		},
		{
			name: "instance arity",
			file: File{Types: []Type{{
				Name: "P", Kind: KindStruct,
				Params:    []Param{{Name: "T"}},
				Instances: StringOrArray{"int, int"},
			}}},
			code: diagnostic.CodeInvalidSchema,
		},
		{
			name: "instances on non-generic",
			file: File{Types: []Type{{Name: "A", Kind: KindStruct, Instances: StringOrArray{"int"}}}},
			code: diagnostic.CodeInvalidSchema,
		},
		{
			name: "enum with fields",
			file: File{Types: []Type{{Name: "E", Kind: KindEnum, Fields: []Field{{Name: "X", Type: "int"}}}}},
			code: diagnostic.CodeInvalidSchema,
		},
		{
			name:  "duplicate variant",
			file:  File{Types: []Type{{Name: "E", Kind: KindEnum, Variants: []Variant{{Name: "A"}, {Name: "A"}}}}},
			code:  diagnostic.CodeDuplicate,
			field: "A",
		},
		{
			name: "bad package",
			file: File{Package: "my-pkg"},
			code: diagnostic.CodeInvalidSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.file.Version = CurrentVersion

			res := Validate(&tt.file)
			require.True(t, res.HasErrors())
			assert.Contains(t, codes(res.Errors), tt.code)

			if tt.field != "" {
				assert.Equal(t, tt.field, res.Errors[0].Field)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	res := Validate(&File{Version: "7", Types: []Type{{Name: "E", Kind: KindEnum}}})
	assert.False(t, res.HasErrors())
	assert.Len(t, res.Warnings, 2)

	assert.True(t, Validate(nil).HasErrors())
}

func TestInstanceArgs(t *testing.T) {
	args, err := InstanceArgs("float32, map[string]int")
	require.NoError(t, err)
	assert.Len(t, args, 2)

	n, err := InstanceArity("Pair[int, int]")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = InstanceArgs("int,,")
	assert.Error(t, err)
}
