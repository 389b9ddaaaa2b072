package pagination

import (
	"slices"
	"strings"
)

// Order is an SQL sort direction.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder accepts ASC or DESC in any case and falls back to def otherwise.
// An empty def means DESC.
func ParseOrder(raw string, def Order) Order {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(OrderAsc):
		return OrderAsc
	case string(OrderDesc):
		return OrderDesc
	}
	if def == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// SortSpec is the allow-list of sort fields accepted by one endpoint.
// Fields are logical names; repositories map them to columns.
type SortSpec struct {
	Allowed      []string
	Default      string
	DefaultOrder Order
}

// Resolve returns raw when it is allowed, otherwise the default field.
// Matching is exact so the same input always resolves the same way.
func (s SortSpec) Resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && slices.Contains(s.Allowed, raw) {
		return raw
	}
	return s.Default
}
