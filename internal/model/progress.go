package model

import "time"

// Progress is one user's daily log: revenue earned, problems solved,
// hours worked, and how the day felt.
//
// Date is a calendar day in "2006-01-02" form. There is exactly one
// Progress row per (user, date) — creating a second entry for the same
// day updates the existing one (upsert semantics), backed by a UNIQUE
// index in the store.
type Progress struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	Revenue      float64   `json:"revenue"`
	DSAProblems  int       `json:"dsaProblems"`
	HoursWorked  float64   `json:"hoursWorked"`
	Mood         string    `json:"mood"`
	Energy       int       `json:"energy"` // 1..10
	Achievements []string  `json:"achievements"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
