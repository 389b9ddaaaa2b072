package search

import "math"

// MaxScore is the score of a title match.
const MaxScore = 3

// Field is one searchable article column and the score a match in it earns.
type Field struct {
	Column string
	Weight int
}

// Fields lists the searchable columns in descending weight order.
// A match in an earlier field wins over any later one.
var Fields = []Field{
	{Column: "title", Weight: 3},
	{Column: "summary", Weight: 2},
	{Column: "content", Weight: 1},
}

// Score returns 3 when term occurs in title, else 2 for summary, else 1 for
// content, else 0. Matching is a case-insensitive substring test using the
// same simple case folding as Highlight, so a scored field is always marked.
// An empty term scores 0.
func Score(term, title, summary, content string) int {
	needle := foldNeedle(term)
	if len(needle) == 0 {
		return 0
	}
	values := [...]string{title, summary, content}
	for i, f := range Fields {
		if containsFold(values[i], needle) {
			return f.Weight
		}
	}
	return 0
}

// Percent scales a score to 0..100, rounded half away from zero.
func Percent(score int) int {
	if score <= 0 {
		return 0
	}
	if score >= MaxScore {
		return 100
	}
	return int(math.Round(float64(score) * 100 / MaxScore))
}
