// Package model defines the data structures persisted and served by the
// application. Structs here carry json tags for the API shape and are
// shared by the repository, service, and handler layers.
package model

import "time"

// Settings are per-user preference flags.
type Settings struct {
	EmailUpdates  bool `json:"emailUpdates"`
	PublicProfile bool `json:"publicProfile"`
}

// SocialLinks are optional public profile links shown on the shared
// progress page. Empty string means "not set".
type SocialLinks struct {
	Twitter  string `json:"twitter"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
}

// User represents a registered account.
//
// PasswordHash is tagged `json:"-"` so it can never leak into an API
// response, no matter which handler serializes the struct.
//
// GitHubID is non-zero only for accounts created or linked via GitHub
// sign-in. A UNIQUE index on github_id maps each GitHub account to
// exactly one row.
//
// EmailVerified is a dedicated column — deliberately not one of the
// Settings flags, which are user preferences, not identity state.
type User struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"`
	GitHubID       int64       `json:"-"`
	CurrentDay     int         `json:"currentDay"` // position in the 100-day challenge, 1..100
	TargetRevenue  float64     `json:"targetRevenue"`
	CurrentRevenue float64     `json:"currentRevenue"`
	StreakCount    int         `json:"streakCount"`
	EmailVerified  bool        `json:"emailVerified"`
	Settings       Settings    `json:"settings"`
	SocialLinks    SocialLinks `json:"socialLinks"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
