package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"min", "min"},
		{"Max", "max"},
		{"show_label", "showlabel"},
		{"ShowLabel", "showlabel"},
		{"show-label", "showlabel"},
		{"QuatDisplay.Euler", "quatdisplayeuler"},
		{"YAW_PITCH_ROLL", "yawpitchroll"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}
