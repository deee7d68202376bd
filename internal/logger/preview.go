package logger

import "strings"

// Preview shortens a response body for a log line. Runs of whitespace,
// including newlines from HTML error pages, collapse to a single space.
func Preview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
