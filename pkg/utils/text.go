package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanToValidUTF8 strips invalid UTF-8 sequences and NUL bytes so the
// value is safe for a Postgres text column.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}

// SafeText normalizes whitespace and strips control characters from
// extracted article content.
func SafeText(s string) string {
	s = CleanToValidUTF8(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsString reports whether list contains the given value.
func ContainsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most max bytes, appending an ellipsis when
// it was cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
