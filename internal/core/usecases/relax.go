package usecases

import (
	"regexp"
	"sort"
	"strings"
)

// minFallbackTokenLen is the shortest token considered for a relaxed query.
const minFallbackTokenLen = 3

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// DeriveFallbackQuery picks the longest word of query, ignoring punctuation and
// words shorter than three characters. Ties go to the earliest word. It
// returns "" when no word qualifies.
func DeriveFallbackQuery(query string) string {
	var tokens []string
	for _, field := range strings.Fields(query) {
		token := nonAlnum.ReplaceAllString(field, "")
		if len(token) >= minFallbackTokenLen {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return ""
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens[0]
}
