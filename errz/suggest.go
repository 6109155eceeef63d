package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions to return.
const MaxSuggestions = 3

// SuggestSimilar returns candidate names within a small edit distance
// of target, closest first then alphabetical. The distance threshold
// shrinks for short names so that one-letter variables do not attract
// unrelated suggestions.
func SuggestSimilar(target string, candidates []string) []string {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	threshold := 3
	if len(target) <= 3 {
		threshold = 1
	} else if len(target) <= 5 {
		threshold = 2
	}

	lower := strings.ToLower(target)
	type scored struct {
		value    string
		distance int
	}
	var matches []scored
	for _, candidate := range candidates {
		if candidate == "" || strings.ToLower(candidate) == lower {
			continue
		}
		d := levenshtein(lower, strings.ToLower(candidate))
		if d <= threshold {
			matches = append(matches, scored{value: candidate, distance: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.value)
	}
	return out
}

// FormatSuggestions renders suggestions as a "did you mean" hint.
// Returns an empty string if there are none.
func FormatSuggestions(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0] + "'?"
	default:
		return "did you mean one of: '" + strings.Join(suggestions, "', '") + "'?"
	}
}

// levenshtein computes the edit distance between two strings using a
// single-row dynamic programming table.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}
	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		prev := row[0] // row[j-1] from the previous iteration
		row[0] = i
		for j := 1; j <= len(br); j++ {
			cur := row[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, prev+cost)
			prev = cur
		}
	}
	return row[len(br)]
}
