package article

import "inkwell/internal/common/pagination"

// DefaultLimit is the page size of article lists.
const DefaultLimit = 10

// PublicSort is the sort allow-list of the public article lists.
var PublicSort = pagination.SortSpec{
	Allowed: []string{"id", "title", "published_at", "view_count", "created_at", "updated_at"},
	Default: "published_at",
}

// AdminSort is the sort allow-list of the admin article list.
var AdminSort = pagination.SortSpec{
	Allowed: []string{"id", "title", "published_at", "view_count", "created_at", "updated_at"},
	Default: "created_at",
}
