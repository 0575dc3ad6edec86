package naming

import "sort"

// minSuggestScore is the normalized similarity a candidate needs to be suggested.
const minSuggestScore = 0.5

// Suggest returns up to limit candidates that look like name, best first.
// Ties are broken alphabetically.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := NormalizedLevenshteinScore(name, c)
		if score >= minSuggestScore {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
