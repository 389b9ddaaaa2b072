package pagination

// Metadata is the "pagination" object of every list response.
type Metadata struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"` // 0 for an empty list
}

// NewMetadata builds the envelope for a window and a total count.
func NewMetadata(params Params, total int64) Metadata {
	m := Metadata{Total: total, Page: params.Page, Limit: params.Limit}
	if total > 0 && params.Limit > 0 {
		limit := int64(params.Limit)
		m.Pages = int((total + limit - 1) / limit)
	}
	return m
}
