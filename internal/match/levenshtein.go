package match

// Levenshtein returns the edit distance between a and b, counted in bytes.
// Option keys are ASCII identifiers.
func Levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			up := row[i]

			sub := diag
			if a[i-1] != b[j-1] {
				sub++
			}

			row[i] = min(up+1, row[i-1]+1, sub)
			diag = up
		}
	}

	return row[len(a)]
}

// LevenshteinNormalized maps the edit distance into [0, 1], where 1 means
// equal strings.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// NormalizedLevenshteinScore compares two identifiers after NormalizeIdent.
func NormalizedLevenshteinScore(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}
