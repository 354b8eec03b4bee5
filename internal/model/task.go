package model

import "time"

// Task is a daily to-do item.
//
// CompletedAt is non-nil iff Completed is true. The service layer owns
// that transition: setting Completed=true stamps CompletedAt, setting it
// back to false clears it.
//
// Version supports optimistic concurrency on updates: it increments on
// every write, and a client that sends a stale version gets a conflict
// instead of silently clobbering a concurrent update. Clients that omit
// the version keep plain last-writer-wins.
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Title            string     `json:"title"`
	Category         string     `json:"category"` // learning|health|content|outreach|personal
	Priority         string     `json:"priority"` // high|medium|low
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt"`
	DueDate          *time.Time `json:"dueDate"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
