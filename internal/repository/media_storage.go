package repository

import (
	"context"
	"io"
)

// MediaStorage persists uploaded file bytes.
type MediaStorage interface {
	// Save writes r under name (a slash-separated relative path) and returns the public URL.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}
