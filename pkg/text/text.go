// Package text provides small string helpers shared by table rendering
// and identifier resolution.
package text

import (
	"strings"

	"github.com/google/uuid"
)

// Truncate shortens s to at most maxLen runes, replacing the tail with
// "..." when it does not fit. maxLen <= 0 returns an empty string.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}

// IsUUID reports whether value looks like a canonical 36-character UUID.
func IsUUID(value string) bool {
	if len(value) != 36 || strings.Count(value, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// IsIssueIdentifier reports whether value looks like a human issue
// identifier such as "ENG-123".
func IsIssueIdentifier(value string) bool {
	prefix, number, ok := strings.Cut(value, "-")
	if !ok || prefix == "" || number == "" {
		return false
	}
	for _, c := range prefix {
		if !isAlphanumeric(c) {
			return false
		}
	}
	for _, c := range number {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
