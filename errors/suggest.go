package errors

import (
	"sort"
	"strings"
)

const (
	// MaxSuggestionDistance is the largest edit distance offered as a fix.
	MaxSuggestionDistance = 3
	// MaxSuggestions caps the number of suggestions returned.
	MaxSuggestions = 3
)

// Suggestion is a candidate name close to a misspelled one.
type Suggestion struct {
	Value    string
	Distance int
}

// threshold allows one edit per three characters, between 1 and
// MaxSuggestionDistance, so "nodeset" suggests "node-set" but not "node".
func threshold(name string) int {
	return max(1, min(len(name)/3, MaxSuggestionDistance))
}

// SuggestSimilar returns the candidates within edit distance of target,
// closest first and then alphabetically. Matching ignores case.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	lower := strings.ToLower(target)
	limit := threshold(lower)
	var out []Suggestion
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if c == "" || lc == lower {
			continue
		}
		if d := levenshteinDistance(lower, lc); d <= limit {
			out = append(out, Suggestion{Value: c, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].Value < out[j].Value
		}
		return out[i].Distance < out[j].Distance
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a hint line, or "" if there are
// none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			above := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(rb)]
}
