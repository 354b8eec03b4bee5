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

var _ repository.OutreachRepository = (*DB)(nil)

const outreachColumns = `id, user_id, type, target, subject, status,
	opened_at, replied_at, created_at, updated_at`

// CreateOutreach inserts an outreach attempt owned by o.UserID.
func (db *DB) CreateOutreach(ctx context.Context, o *model.Outreach) error {
	o.ID = xid.New().String()
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO outreach (`+outreachColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.Type, o.Target, o.Subject, o.Status,
		toNullTime(o.OpenedAt), toNullTime(o.RepliedAt),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating outreach: %w", err)
	}
	return nil
}

func scanOutreach(scan func(...any) error) (*model.Outreach, error) {
	var o model.Outreach
	var openedAt, repliedAt sql.NullTime
	err := scan(
		&o.ID, &o.UserID, &o.Type, &o.Target, &o.Subject, &o.Status,
		&openedAt, &repliedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.OpenedAt = timePtr(openedAt)
	o.RepliedAt = timePtr(repliedAt)
	return &o, nil
}

// GetOutreachByID fetches an attempt scoped by (id, userID).
func (db *DB) GetOutreachByID(ctx context.Context, id, userID string) (*model.Outreach, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+outreachColumns+` FROM outreach WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	o, err := scanOutreach(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("outreach", id)
		}
		return nil, fmt.Errorf("sqlite: getting outreach %s: %w", id, err)
	}
	return o, nil
}

// ListOutreach returns the caller's attempts, newest first, narrowed by
// the whitelisted filter fields.
func (db *DB) ListOutreach(ctx context.Context, userID string, filter repository.OutreachFilter) ([]model.Outreach, error) {
	query := `SELECT ` + outreachColumns + ` FROM outreach WHERE user_id = ?`
	args := []any{userID}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing outreach: %w", err)
	}
	defer rows.Close()

	attempts := []model.Outreach{}
	for rows.Next() {
		o, err := scanOutreach(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning outreach row: %w", err)
		}
		attempts = append(attempts, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating outreach: %w", err)
	}
	return attempts, nil
}

// UpdateOutreach rewrites an attempt's mutable fields, scoped by
// (id, user_id).
func (db *DB) UpdateOutreach(ctx context.Context, o *model.Outreach) error {
	o.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE outreach
		 SET type = ?, target = ?, subject = ?, status = ?,
		     opened_at = ?, replied_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		o.Type, o.Target, o.Subject, o.Status,
		toNullTime(o.OpenedAt), toNullTime(o.RepliedAt), o.UpdatedAt,
		o.ID, o.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating outreach %s: %w", o.ID, err)
	}
	return checkAffected(result, "outreach", o.ID)
}

// DeleteOutreach removes an attempt scoped by (id, userID).
func (db *DB) DeleteOutreach(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM outreach WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting outreach %s: %w", id, err)
	}
	return checkAffected(result, "outreach", id)
}
