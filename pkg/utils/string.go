package utils

import "strings"

// Truncate folds whitespace runs in s to single spaces and cuts the result to
// at most maxLen runes, marking a cut with "...".
func Truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
