// Package textnorm folds text for case- and diacritic-insensitive comparison.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes s canonically, removes all nonspacing marks (Mn) and
// lowercases the result. Lowercasing is applied on both sides of the
// decomposition so that Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// transformers keep state and must not be shared between goroutines
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Contains reports whether the normalized form of term is a substring of the
// normalized form of text.
func Contains(text, term string) bool {
	return strings.Contains(Normalize(text), Normalize(term))
}
