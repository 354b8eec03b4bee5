package sqlite

import (
	"context"
	"fmt"

	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

var _ repository.StatsRepository = (*DB)(nil)

// DashboardStats computes the full dashboard aggregation for one user in
// a handful of grouped queries. Nothing is cached — every call recomputes
// from the live tables.
//
// Timestamp columns are compared by their leading "YYYY-MM-DD" prefix,
// which holds for every format database/sql writes them in, so the
// date-window arguments can stay plain calendar days.
func (db *DB) DashboardStats(ctx context.Context, userID, today, weekStart, monthStart string) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	// Task counts, overall and for today, in one pass.
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(completed), 0),
			COALESCE(SUM(CASE WHEN substr(created_at, 1, 10) = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN substr(created_at, 1, 10) = ? AND completed THEN 1 ELSE 0 END), 0)
		 FROM tasks WHERE user_id = ?`,
		today, today, userID,
	).Scan(
		&stats.Tasks.Total, &stats.Tasks.Completed,
		&stats.Tasks.TodayTotal, &stats.Tasks.TodayCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating tasks: %w", err)
	}
	if stats.Tasks.Total > 0 {
		stats.Tasks.CompletionRate = float64(stats.Tasks.Completed) / float64(stats.Tasks.Total) * 100
	}

	// Revenue from daily progress logs: overall, this week, this month.
	err = db.conn.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(revenue), 0),
			COALESCE(SUM(CASE WHEN date >= ? THEN revenue ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN date >= ? THEN revenue ELSE 0 END), 0)
		 FROM progress WHERE user_id = ?`,
		weekStart, monthStart, userID,
	).Scan(&stats.Revenue.Total, &stats.Revenue.ThisWeek, &stats.Revenue.ThisMonth)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating progress revenue: %w", err)
	}

	// Content totals and content-sourced revenue.
	err = db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'published' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(revenue), 0)
		 FROM content WHERE user_id = ?`,
		userID,
	).Scan(&stats.Content.Total, &stats.Content.Published, &stats.Revenue.FromContent)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating content: %w", err)
	}

	// Client totals and client-sourced revenue (sum of paid amounts).
	err = db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(paid_amount), 0)
		 FROM clients WHERE user_id = ?`,
		userID,
	).Scan(&stats.Clients.Total, &stats.Clients.Active, &stats.Revenue.FromClients)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating clients: %w", err)
	}

	// Outreach totals, replies, and this-week volume.
	err = db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'replied' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN substr(created_at, 1, 10) >= ? THEN 1 ELSE 0 END), 0)
		 FROM outreach WHERE user_id = ?`,
		weekStart, userID,
	).Scan(&stats.Outreach.Total, &stats.Outreach.Replied, &stats.Outreach.ThisWeek)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating outreach: %w", err)
	}
	if stats.Outreach.Total > 0 {
		stats.Outreach.ReplyRate = float64(stats.Outreach.Replied) / float64(stats.Outreach.Total) * 100
	}

	// Last 7 logged days for the dashboard sparkline.
	recent, err := db.ListProgress(ctx, userID, repository.ListOptions{Limit: 7})
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading recent progress: %w", err)
	}
	stats.RecentProgress = recent

	return stats, nil
}
