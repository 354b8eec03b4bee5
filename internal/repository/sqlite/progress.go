package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

var _ repository.ProgressRepository = (*DB)(nil)

const progressColumns = `id, user_id, date, revenue, dsa_problems,
	hours_worked, mood, energy, achievements, created_at, updated_at`

// UpsertProgress inserts the day's log, or replaces the fields of the
// existing row for the same (user, date). ON CONFLICT targets the
// UNIQUE (user_id, date) index, so two concurrent posts for the same day
// can never produce two rows — the second simply becomes an update.
// The canonical row (keeping the original id/created_at on conflict) is
// read back into p.
func (db *DB) UpsertProgress(ctx context.Context, p *model.Progress) error {
	p.ID = xid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	achievements, err := marshalJSON(p.Achievements)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
			revenue = excluded.revenue,
			dsa_problems = excluded.dsa_problems,
			hours_worked = excluded.hours_worked,
			mood = excluded.mood,
			energy = excluded.energy,
			achievements = excluded.achievements,
			updated_at = excluded.updated_at`,
		p.ID, p.UserID, p.Date, p.Revenue, p.DSAProblems,
		p.HoursWorked, p.Mood, p.Energy, achievements,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting progress for %s: %w", p.Date, err)
	}

	// Read the canonical row back so the caller sees the surviving
	// id and created_at when the write hit an existing day.
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? AND date = ?`,
		p.UserID, p.Date,
	)
	stored, err := scanProgress(row.Scan)
	if err != nil {
		return fmt.Errorf("sqlite: reading back progress for %s: %w", p.Date, err)
	}
	*p = *stored
	return nil
}

func scanProgress(scan func(...any) error) (*model.Progress, error) {
	var p model.Progress
	var achievements string
	err := scan(
		&p.ID, &p.UserID, &p.Date, &p.Revenue, &p.DSAProblems,
		&p.HoursWorked, &p.Mood, &p.Energy, &achievements,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Achievements = []string{}
	if err := unmarshalJSON(achievements, &p.Achievements); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProgressByID fetches one log scoped by (id, userID).
func (db *DB) GetProgressByID(ctx context.Context, id, userID string) (*model.Progress, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	p, err := scanProgress(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("progress", id)
		}
		return nil, fmt.Errorf("sqlite: getting progress %s: %w", id, err)
	}
	return p, nil
}

// ListProgress returns the caller's logs, newest day first, optionally
// bounded by an inclusive date range and paginated.
func (db *DB) ListProgress(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = ?`
	args := []any{userID}

	if opts.FromDate != "" {
		query += ` AND date >= ?`
		args = append(args, opts.FromDate)
	}
	if opts.ToDate != "" {
		query += ` AND date <= ?`
		args = append(args, opts.ToDate)
	}
	query += ` ORDER BY date DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(opts.Limit), max(opts.Offset, 0))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing progress: %w", err)
	}
	defer rows.Close()

	entries := []model.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning progress row: %w", err)
		}
		entries = append(entries, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating progress: %w", err)
	}
	return entries, nil
}

// UpdateProgress rewrites a log's mutable fields, scoped by
// (id, user_id). The date is immutable after creation.
func (db *DB) UpdateProgress(ctx context.Context, p *model.Progress) error {
	p.UpdatedAt = time.Now()

	achievements, err := marshalJSON(p.Achievements)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE progress
		 SET revenue = ?, dsa_problems = ?, hours_worked = ?, mood = ?,
		     energy = ?, achievements = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Revenue, p.DSAProblems, p.HoursWorked, p.Mood,
		p.Energy, achievements, p.UpdatedAt,
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating progress %s: %w", p.ID, err)
	}
	return checkAffected(result, "progress", p.ID)
}

// DeleteProgress removes a log scoped by (id, userID).
func (db *DB) DeleteProgress(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM progress WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting progress %s: %w", id, err)
	}
	return checkAffected(result, "progress", id)
}

// clampLimit applies the default/maximum page size shared by the
// date-keyed resources.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 31 // about a month of daily entries
	}
	if limit > 100 {
		return 100
	}
	return limit
}
