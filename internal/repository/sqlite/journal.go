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

var _ repository.JournalRepository = (*DB)(nil)

const journalColumns = `id, user_id, date, content, mood, energy, word_count,
	learnings, challenges, wins, goals, gratitude, tomorrow_focus,
	created_at, updated_at`

// journalLists bundles the six categorized note lists for (un)marshaling.
type journalLists struct {
	learnings, challenges, wins, goals, gratitude, tomorrowFocus string
}

func marshalJournalLists(j *model.Journal) (journalLists, error) {
	var out journalLists
	var err error
	if out.learnings, err = marshalJSON(j.Learnings); err != nil {
		return out, err
	}
	if out.challenges, err = marshalJSON(j.Challenges); err != nil {
		return out, err
	}
	if out.wins, err = marshalJSON(j.Wins); err != nil {
		return out, err
	}
	if out.goals, err = marshalJSON(j.Goals); err != nil {
		return out, err
	}
	if out.gratitude, err = marshalJSON(j.Gratitude); err != nil {
		return out, err
	}
	if out.tomorrowFocus, err = marshalJSON(j.TomorrowFocus); err != nil {
		return out, err
	}
	return out, nil
}

// CreateJournal inserts a journal entry. Unlike progress, a second entry
// for the same (user, date) is a conflict, not an upsert — the UNIQUE
// index rejection is surfaced as ErrConflict.
func (db *DB) CreateJournal(ctx context.Context, j *model.Journal) error {
	j.ID = xid.New().String()
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now

	lists, err := marshalJournalLists(j)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO journal (`+journalColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.UserID, j.Date, j.Content, j.Mood, j.Energy, j.WordCount,
		lists.learnings, lists.challenges, lists.wins, lists.goals,
		lists.gratitude, lists.tomorrowFocus,
		j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("journal entry already exists for %s", j.Date))
		}
		return fmt.Errorf("sqlite: creating journal entry: %w", err)
	}
	return nil
}

func scanJournal(scan func(...any) error) (*model.Journal, error) {
	var j model.Journal
	var lists journalLists
	err := scan(
		&j.ID, &j.UserID, &j.Date, &j.Content, &j.Mood, &j.Energy,
		&j.WordCount, &lists.learnings, &lists.challenges, &lists.wins,
		&lists.goals, &lists.gratitude, &lists.tomorrowFocus,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Learnings, j.Challenges, j.Wins = []string{}, []string{}, []string{}
	j.Goals, j.Gratitude, j.TomorrowFocus = []string{}, []string{}, []string{}
	for _, pair := range []struct {
		raw string
		out *[]string
	}{
		{lists.learnings, &j.Learnings},
		{lists.challenges, &j.Challenges},
		{lists.wins, &j.Wins},
		{lists.goals, &j.Goals},
		{lists.gratitude, &j.Gratitude},
		{lists.tomorrowFocus, &j.TomorrowFocus},
	} {
		if err := unmarshalJSON(pair.raw, pair.out); err != nil {
			return nil, err
		}
	}
	return &j, nil
}

// GetJournalByID fetches an entry scoped by (id, userID).
func (db *DB) GetJournalByID(ctx context.Context, id, userID string) (*model.Journal, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+journalColumns+` FROM journal WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	j, err := scanJournal(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("journal", id)
		}
		return nil, fmt.Errorf("sqlite: getting journal entry %s: %w", id, err)
	}
	return j, nil
}

// ListJournal returns the caller's entries, newest day first, optionally
// bounded by an inclusive date range and paginated.
func (db *DB) ListJournal(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journal WHERE user_id = ?`
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
		return nil, fmt.Errorf("sqlite: listing journal entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal row: %w", err)
		}
		entries = append(entries, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating journal entries: %w", err)
	}
	return entries, nil
}

// UpdateJournal rewrites an entry's mutable fields, scoped by
// (id, user_id). The date is immutable after creation.
func (db *DB) UpdateJournal(ctx context.Context, j *model.Journal) error {
	j.UpdatedAt = time.Now()

	lists, err := marshalJournalLists(j)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE journal
		 SET content = ?, mood = ?, energy = ?, word_count = ?,
		     learnings = ?, challenges = ?, wins = ?, goals = ?,
		     gratitude = ?, tomorrow_focus = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		j.Content, j.Mood, j.Energy, j.WordCount,
		lists.learnings, lists.challenges, lists.wins, lists.goals,
		lists.gratitude, lists.tomorrowFocus, j.UpdatedAt,
		j.ID, j.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating journal entry %s: %w", j.ID, err)
	}
	return checkAffected(result, "journal", j.ID)
}

// DeleteJournal removes an entry scoped by (id, userID).
func (db *DB) DeleteJournal(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM journal WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting journal entry %s: %w", id, err)
	}
	return checkAffected(result, "journal", id)
}
