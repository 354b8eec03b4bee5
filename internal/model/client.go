package model

import "time"

// Client is a freelance client engagement.
//
// PaidAmount is tracked independently of Budget — there is intentionally
// no invariant linking the two (partial payments, scope changes).
type Client struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Project       string    `json:"project"`
	Budget        float64   `json:"budget"`
	Status        string    `json:"status"`        // pending|active|completed|cancelled|on-hold
	PaymentStatus string    `json:"paymentStatus"` // pending|partial|paid
	PaidAmount    float64   `json:"paidAmount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
