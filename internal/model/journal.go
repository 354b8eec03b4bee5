package model

import "time"

// Journal is a daily journal entry with categorized note lists.
//
// Like Progress, Date is a "2006-01-02" calendar day with a UNIQUE
// (user, date) index — but unlike Progress, a duplicate day is rejected
// with a conflict rather than upserted. A journal entry is a written
// artifact; silently replacing one would lose the original text.
//
// WordCount is derived from Content at write time, never accepted from
// the client.
type Journal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Date          string    `json:"date"`
	Content       string    `json:"content"`
	Mood          string    `json:"mood"`
	Energy        int       `json:"energy"` // 1..10
	WordCount     int       `json:"wordCount"`
	Learnings     []string  `json:"learnings"`
	Challenges    []string  `json:"challenges"`
	Wins          []string  `json:"wins"`
	Goals         []string  `json:"goals"`
	Gratitude     []string  `json:"gratitude"`
	TomorrowFocus []string  `json:"tomorrowFocus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
