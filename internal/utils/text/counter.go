// Package text provides rune-aware helpers for article and comment text.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters such as 中文 or emoji count as one each.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("你好世界")    // returns 4
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns at most n runes of text. When text is cut, suffix is appended.
func Truncate(text string, n int, suffix string) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimRightFunc(string(runes[:n]), isSpace) + suffix
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '　'
}
