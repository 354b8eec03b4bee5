package model

import "time"

// Outreach is a single cold-outreach attempt (email, DM, call, meeting).
//
// OpenedAt and RepliedAt are stamped on the first transition into the
// "opened" / "replied" status respectively and kept thereafter, so the
// timestamps survive later status changes (e.g. opened → no-response).
type Outreach struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"` // email|dm|call|meeting
	Target    string     `json:"target"`
	Subject   string     `json:"subject"`
	Status    string     `json:"status"` // sent|delivered|opened|replied|bounced|no-response
	OpenedAt  *time.Time `json:"openedAt"`
	RepliedAt *time.Time `json:"repliedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
