package entity

import "time"

// Media is an uploaded file in the media library.
type Media struct {
	ID           int64
	Filename     string // stored name relative to the upload root
	OriginalName string
	URL          string
	MimeType     string
	Size         int64
	CreatedAt    time.Time
}
