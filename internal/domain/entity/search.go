package entity

// SearchResult is an article matched by a search query.
// It is derived per request and never persisted.
type SearchResult struct {
	Article            *Article
	RelevanceScore     int // 0..3, see search.Score
	RelevancePercent   int // RelevanceScore scaled to 0..100
	HighlightedTitle   string
	HighlightedSummary string
}

// PopularTerm is a search term with its usage count.
type PopularTerm struct {
	Term  string `json:"term" yaml:"term"`
	Count int64  `json:"count" yaml:"count"`
}
