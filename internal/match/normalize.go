package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an option key or field name for fuzzy matching:
// "ShowLabel", "show_label" and "show-label" all become "showlabel".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}
