// Package repository declares the storage interfaces the service layer
// programs against, plus the typed filter structs used for list queries.
//
// Filters are deliberately strongly typed with an explicit whitelist of
// filterable fields per resource — unknown query parameters never reach
// the store. A nil pointer field means "don't filter on this field".
package repository

import (
	"context"

	"github.com/cashflowcoders/devplanner/internal/model"
)

// ListOptions is shared pagination for date-keyed resources (progress,
// journal). FromDate/ToDate are inclusive "2006-01-02" bounds; empty
// string means unbounded.
type ListOptions struct {
	Limit    int
	Offset   int
	FromDate string
	ToDate   string
}

// TaskFilter narrows a task list by whitelisted equality fields.
type TaskFilter struct {
	Category  string
	Priority  string
	Completed *bool
}

// ContentFilter narrows a content list.
type ContentFilter struct {
	Type     string
	Status   string
	Platform string
}

// ClientFilter narrows a client list.
type ClientFilter struct {
	Status        string
	PaymentStatus string
}

// OutreachFilter narrows an outreach list.
type OutreachFilter struct {
	Type   string
	Status string
}

// UserRepository manages account records.
//
// Create relies on the UNIQUE email index as the final backstop against
// the check-then-insert race: a duplicate insert surfaces as a conflict.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetEmailVerified(ctx context.Context, id string) error
	LinkGitHub(ctx context.Context, id string, githubID int64) error
}

// TaskRepository manages tasks. All read/write operations other than
// Create are scoped by (id, userID) simultaneously — a row owned by a
// different user is reported as not found.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTaskByID(ctx context.Context, id, userID string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id, userID string) error
}

// ProgressRepository manages daily progress logs.
// Upsert inserts a new row or replaces the fields of the existing row
// for the same (user, date).
type ProgressRepository interface {
	UpsertProgress(ctx context.Context, p *model.Progress) error
	GetProgressByID(ctx context.Context, id, userID string) (*model.Progress, error)
	ListProgress(ctx context.Context, userID string, opts ListOptions) ([]model.Progress, error)
	UpdateProgress(ctx context.Context, p *model.Progress) error
	DeleteProgress(ctx context.Context, id, userID string) error
}

// ContentRepository manages content pieces.
type ContentRepository interface {
	CreateContent(ctx context.Context, c *model.Content) error
	GetContentByID(ctx context.Context, id, userID string) (*model.Content, error)
	ListContent(ctx context.Context, userID string, filter ContentFilter) ([]model.Content, error)
	UpdateContent(ctx context.Context, c *model.Content) error
	DeleteContent(ctx context.Context, id, userID string) error
}

// ClientRepository manages client engagements.
type ClientRepository interface {
	CreateClient(ctx context.Context, c *model.Client) error
	GetClientByID(ctx context.Context, id, userID string) (*model.Client, error)
	ListClients(ctx context.Context, userID string, filter ClientFilter) ([]model.Client, error)
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id, userID string) error
}

// OutreachRepository manages outreach attempts.
type OutreachRepository interface {
	CreateOutreach(ctx context.Context, o *model.Outreach) error
	GetOutreachByID(ctx context.Context, id, userID string) (*model.Outreach, error)
	ListOutreach(ctx context.Context, userID string, filter OutreachFilter) ([]model.Outreach, error)
	UpdateOutreach(ctx context.Context, o *model.Outreach) error
	DeleteOutreach(ctx context.Context, id, userID string) error
}

// JournalRepository manages journal entries. Create returns a conflict
// for a duplicate (user, date), enforced by the UNIQUE index.
type JournalRepository interface {
	CreateJournal(ctx context.Context, j *model.Journal) error
	GetJournalByID(ctx context.Context, id, userID string) (*model.Journal, error)
	ListJournal(ctx context.Context, userID string, opts ListOptions) ([]model.Journal, error)
	UpdateJournal(ctx context.Context, j *model.Journal) error
	DeleteJournal(ctx context.Context, id, userID string) error
}

// StatsRepository computes the dashboard aggregation for one user.
// today and weekStart/monthStart are "2006-01-02" bounds supplied by the
// service so the repository stays clock-free and testable.
type StatsRepository interface {
	DashboardStats(ctx context.Context, userID, today, weekStart, monthStart string) (*model.DashboardStats, error)
}
