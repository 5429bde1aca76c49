// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a string for case-insensitive matching.
// Applies Unicode NFC normalization, lowercases, and trims surrounding
// whitespace. Catalog names and user queries are both passed through
// Fold before comparison so composed/decomposed forms compare equal.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// ContainsFold reports whether s contains substr under Fold normalization.
// An empty substr never matches (guards accidental match-all).
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(Fold(s), Fold(substr))
}

