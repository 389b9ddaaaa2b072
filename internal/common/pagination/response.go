package pagination

// Page is one window of a list result together with its metadata.
// T is the item type (e.g. *entity.Article).
type Page[T any] struct {
	Items      []T
	Pagination Metadata
}

// NewPage creates a page from items and the total count under the same predicate.
// A nil items slice is replaced with an empty one so JSON renders [].
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Pagination: NewMetadata(params, total),
	}
}
