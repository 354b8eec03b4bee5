package model

// DashboardStats is the aggregation served by GET /api/dashboard/stats.
// Everything is scoped to one user and recomputed in full on every call —
// there is no caching or incremental maintenance.
type DashboardStats struct {
	Tasks struct {
		Total          int     `json:"total"`
		Completed      int     `json:"completed"`
		CompletionRate float64 `json:"completionRate"` // 0..100
		TodayTotal     int     `json:"todayTotal"`
		TodayCompleted int     `json:"todayCompleted"`
	} `json:"tasks"`

	Revenue struct {
		Total       float64 `json:"total"` // from daily progress logs
		ThisWeek    float64 `json:"thisWeek"`
		ThisMonth   float64 `json:"thisMonth"`
		FromContent float64 `json:"fromContent"`
		FromClients float64 `json:"fromClients"` // sum of paid amounts
	} `json:"revenue"`

	Content struct {
		Total     int `json:"total"`
		Published int `json:"published"`
	} `json:"content"`

	Clients struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"clients"`

	Outreach struct {
		Total     int     `json:"total"`
		Replied   int     `json:"replied"`
		ThisWeek  int     `json:"thisWeek"`
		ReplyRate float64 `json:"replyRate"` // 0..100
	} `json:"outreach"`

	RecentProgress []Progress `json:"recentProgress"` // last 7 logged days, newest first
}
