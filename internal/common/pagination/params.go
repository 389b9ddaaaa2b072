package pagination

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Params is a validated pagination window.
type Params struct {
	Page  int    // 1-based page number
	Limit int    // Items per page
	Sort  string // Allow-listed sort field
	Order Order  // ASC or DESC
}

// Offset is the number of rows before the window; page 1 starts at 0.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt - math.MaxInt%p.Limit
	}
	return (p.Page - 1) * p.Limit
}

// bounded fills unset fields from config, caps Limit at config.MaxLimit
// and caps Page so the offset never overflows.
// Anything but ASC becomes DESC.
func (p Params) bounded(config Config) Params {
	if p.Page < 1 {
		p.Page = max(config.DefaultPage, 1)
	}
	if p.Limit < 1 {
		p.Limit = config.DefaultLimit
	}
	if config.MaxLimit > 0 {
		p.Limit = min(p.Limit, config.MaxLimit)
	}
	p.Limit = max(p.Limit, 1)
	// (Page-1)*Limit must stay within int
	p.Page = min(p.Page, math.MaxInt/p.Limit)
	if p.Order != OrderAsc {
		p.Order = OrderDesc
	}
	return p
}

// ParseQueryParams parses pagination parameters from the HTTP request query string.
// It never fails: missing or malformed values resolve to safe defaults.
//
// Query parameters:
//   - page: Page number (non-positive or non-numeric -> config.DefaultPage)
//   - limit: Items per page (non-positive or non-numeric -> config.DefaultLimit, capped at config.MaxLimit)
//   - sort: Sort field (must be in spec.Allowed, else spec.Default)
//   - order: ASC or DESC, case-insensitive (else spec.DefaultOrder, DESC when unset)
func ParseQueryParams(r *http.Request, config Config, spec SortSpec) Params {
	return FromValues(r.URL.Query(), config, spec)
}

// FromValues is ParseQueryParams for an already parsed query string.
func FromValues(q url.Values, config Config, spec SortSpec) Params {
	p := Params{
		Page:  parsePositive(q.Get("page")),
		Limit: parsePositive(q.Get("limit")),
		Sort:  spec.Resolve(q.Get("sort")),
		Order: ParseOrder(q.Get("order"), spec.DefaultOrder),
	}
	return p.bounded(config)
}

// parsePositive returns the integer value of s, or 0 when s is not a positive integer.
func parsePositive(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
