package model

import "time"

// ContentMetrics holds engagement counters for a content piece.
type ContentMetrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Content is a published or planned piece of content (video, blog post,
// digital product).
//
// PublishedAt is stamped automatically on the first transition to the
// "published" status if the client didn't supply one; it is never
// cleared afterwards.
type Content struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Type        string         `json:"type"` // video|blog|product
	Title       string         `json:"title"`
	Platform    string         `json:"platform"`
	Status      string         `json:"status"` // draft|published|live|archived
	Views       int            `json:"views"`
	Revenue     float64        `json:"revenue"`
	Tags        []string       `json:"tags"`
	Metrics     ContentMetrics `json:"metrics"`
	PublishedAt *time.Time     `json:"publishedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
