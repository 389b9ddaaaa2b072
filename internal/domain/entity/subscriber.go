package entity

import "time"

// SubscriberStatus is the state of a newsletter subscription.
type SubscriberStatus string

const (
	SubscriberStatusActive       SubscriberStatus = "active"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Valid reports whether s is a known subscriber status.
func (s SubscriberStatus) Valid() bool {
	return s == SubscriberStatusActive || s == SubscriberStatusUnsubscribed
}

// Subscriber is a newsletter subscription keyed by a unique email.
type Subscriber struct {
	ID        int64
	Email     string
	Status    SubscriberStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyCount is one point of a per-day time series.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// SubscriberStats summarizes the subscriber base.
type SubscriberStats struct {
	Total        int64        `json:"total"`
	Active       int64        `json:"active"`
	Unsubscribed int64        `json:"unsubscribed"`
	Trend        []DailyCount `json:"trend"`
}
