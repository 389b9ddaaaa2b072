package search

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight HTML-escapes text and wraps every case-insensitive occurrence of
// term in <mark></mark>. Matches are found left to right and never overlap;
// the original case of the text is kept. An empty term returns the escaped text.
//
//	Highlight("JavaScript Guide", "script") // "Java<mark>Script</mark> Guide"
func Highlight(text, term string) string {
	if term == "" || text == "" {
		return html.EscapeString(text)
	}

	spans := matchSpans(text, term)
	if len(spans) == 0 {
		return html.EscapeString(text)
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(markOpen)+len(markClose)))
	last := 0
	for _, s := range spans {
		b.WriteString(html.EscapeString(text[last:s[0]]))
		b.WriteString(markOpen)
		b.WriteString(html.EscapeString(text[s[0]:s[1]]))
		b.WriteString(markClose)
		last = s[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// foldRune maps r to the smallest rune of its simple case-folding orbit,
// so 'K', 'k' and U+212A KELVIN SIGN compare equal.
func foldRune(r rune) rune {
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		m = min(m, f)
	}
	return m
}

// foldNeedle returns term as folded runes.
func foldNeedle(term string) []rune {
	needle := []rune(term)
	for k, r := range needle {
		needle[k] = foldRune(r)
	}
	return needle
}

// containsFold reports whether the folded needle occurs anywhere in text.
func containsFold(text string, needle []rune) bool {
	if len(needle) == 0 {
		return false
	}
	for i := 0; i < len(text); {
		if _, ok := matchAt(text, i, needle); ok {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return false
}

// matchSpans returns the byte ranges of non-overlapping matches of term in text.
// Comparison is rune by rune on folded runes so offsets always refer to
// the original text.
func matchSpans(text, term string) [][2]int {
	needle := foldNeedle(term)
	if len(needle) == 0 {
		return nil
	}

	var spans [][2]int
	for i := 0; i < len(text); {
		if end, ok := matchAt(text, i, needle); ok {
			spans = append(spans, [2]int{i, end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// matchAt reports whether needle matches text starting at byte offset i and
// returns the byte offset just past the match.
func matchAt(text string, i int, needle []rune) (int, bool) {
	j := i
	for _, want := range needle {
		if j >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[j:])
		if foldRune(r) != want {
			return 0, false
		}
		j += size
	}
	return j, true
}
