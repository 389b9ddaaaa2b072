package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxTermLength bounds search terms in runes.
	MaxTermLength = 100

	// MinSuggestionLength is the shortest term that produces suggestions.
	MinSuggestionLength = 2
)

// NormalizeTerm trims surrounding whitespace and converts the term to NFC so
// composed and decomposed input match the same stored text.
func NormalizeTerm(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// TermLength returns the length of a normalized term in runes.
func TermLength(term string) int {
	return utf8.RuneCountInString(term)
}

// EscapeLike escapes the LIKE metacharacters % _ and the escape character
// itself so term only matches literally. The result is meant for a pattern
// used with ESCAPE '\'.
func EscapeLike(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsPattern returns the LIKE pattern matching any value containing term.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}
