package judge

import (
	"strings"
	"unicode"
)

// normalize drops every whitespace rune and maps single quotes to double
// quotes, so "[0, 1]" and '[0,1]' compare equal.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r == '\'' {
			r = '"'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func outputMatches(output string, expected string) bool {
	return normalize(strings.TrimSpace(output)) == normalize(expected)
}
