package entity

// StatsOverview is the admin dashboard summary.
type StatsOverview struct {
	Articles          int64 `json:"articles"`
	PublishedArticles int64 `json:"published_articles"`
	DraftArticles     int64 `json:"draft_articles"`
	Categories        int64 `json:"categories"`
	Comments          int64 `json:"comments"`
	PendingComments   int64 `json:"pending_comments"`
	Subscribers       int64 `json:"subscribers"`
	Media             int64 `json:"media"`
	TotalViews        int64 `json:"total_views"`
}

// Trends holds daily creation counts for the dashboard chart.
type Trends struct {
	Days        int          `json:"days"`
	Articles    []DailyCount `json:"articles"`
	Comments    []DailyCount `json:"comments"`
	Subscribers []DailyCount `json:"subscribers"`
}

// CategoryStat is the article count and total views of one category.
type CategoryStat struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
	Views        int64  `json:"views"`
}
