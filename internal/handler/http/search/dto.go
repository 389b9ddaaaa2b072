// Package search provides the HTTP handlers of article search, title
// suggestions and popular search terms.
package search

import (
	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/article"
	searchUC "inkwell/internal/usecase/search"
)

// ResultDTO is an article matched by a search. Highlighted fields wrap the
// matches in <mark> and are HTML-escaped otherwise.
type ResultDTO struct {
	article.DTO
	RelevanceScore     int    `json:"relevance_score" example:"3"`
	Relevance          int    `json:"relevance" example:"100"`
	HighlightedTitle   string `json:"highlighted_title" example:"<mark>Go</mark> 入门"`
	HighlightedSummary string `json:"highlighted_summary"`
}

// PageDTO is one page of search results.
type PageDTO struct {
	Query      string              `json:"query" example:"Go"`
	Articles   []ResultDTO         `json:"articles"`
	Pagination pagination.Metadata `json:"pagination"`
}

func toResultDTO(r entity.SearchResult) ResultDTO {
	return ResultDTO{
		DTO:                article.ToDTO(r.Article, false),
		RelevanceScore:     r.RelevanceScore,
		Relevance:          r.RelevancePercent,
		HighlightedTitle:   r.HighlightedTitle,
		HighlightedSummary: r.HighlightedSummary,
	}
}

func toPageDTO(p *searchUC.Page) PageDTO {
	items := make([]ResultDTO, 0, len(p.Results))
	for _, r := range p.Results {
		items = append(items, toResultDTO(r))
	}
	return PageDTO{Query: p.Query, Articles: items, Pagination: p.Pagination}
}
