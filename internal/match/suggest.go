package match

import (
	"sort"
)

// SuggestThreshold is the minimum normalized similarity for a suggestion.
const SuggestThreshold = 0.5

// Suggest returns up to limit candidates similar to name, best first.
// Ties keep the order of candidates.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
		pos   int
	}

	var ranked []scored

	for i, c := range candidates {
		score := NormalizedLevenshteinScore(name, c)
		if score < SuggestThreshold {
			continue
		}

		ranked = append(ranked, scored{name: c, score: score, pos: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
