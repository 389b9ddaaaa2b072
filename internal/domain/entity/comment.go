package entity

import "time"

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
)

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam:
		return true
	}
	return false
}

// Comment is a reader comment attached to an article.
// Comments are removed together with their article.
type Comment struct {
	ID           int64
	ArticleID    int64
	ArticleTitle string // joined from articles on admin reads
	Content      string
	AuthorName   string
	AuthorEmail  string
	Status       CommentStatus
	IPAddress    string
	CreatedAt    time.Time
}

// CommentStats summarizes the moderation queue.
type CommentStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Spam     int64 `json:"spam"`
	Today    int64 `json:"today"`
	Week     int64 `json:"week"`
}
