package schema

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"inspector-options/internal/common"
)

// StringOrArray accepts a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// UnmarshalYAML decodes a Field and records where its inspector value
// starts, so directive diagnostics point into the YAML file.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	type plain Field

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*f = Field(p)
	f.Pos = Pos{Line: node.Line, Column: node.Column}

	if v := mappingValue(node, "inspector"); v != nil {
		f.Pos = valuePos(v)
	}

	return nil
}

// UnmarshalYAML decodes a Type and records its position.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	type plain Type

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*t = Type(p)
	t.Pos = Pos{Line: node.Line, Column: node.Column}

	if v := mappingValue(node, "inspector"); v != nil {
		t.Pos = valuePos(v)
	}

	return nil
}

// UnmarshalYAML decodes a Variant and records its position. A bare string
// is a variant without fields.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = Variant{Name: node.Value, Pos: Pos{Line: node.Line, Column: node.Column}}

		return nil
	}

	type plain Variant

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*v = Variant(p)
	v.Pos = Pos{Line: node.Line, Column: node.Column}

	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}

	return nil
}

// valuePos returns the position of the first character of a scalar's
// content, skipping an opening quote.
func valuePos(v *yaml.Node) Pos {
	p := Pos{Line: v.Line, Column: v.Column}
	if v.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		p.Column++
	}

	return p
}
