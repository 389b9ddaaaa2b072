package entity

import "time"

// ActivityLog records one administrative action.
type ActivityLog struct {
	ID           int64
	Action       string // create, update, delete, login, upload, ...
	ResourceType string // article, category, comment, subscriber, setting, media, admin
	ResourceID   *int64
	Details      string
	Actor        string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
