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

var _ repository.ContentRepository = (*DB)(nil)

const contentColumns = `id, user_id, type, title, platform, status, views,
	revenue, tags, metrics, published_at, created_at, updated_at`

// CreateContent inserts a content piece owned by c.UserID.
func (db *DB) CreateContent(ctx context.Context, c *model.Content) error {
	c.ID = xid.New().String()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	tags, err := marshalJSON(c.Tags)
	if err != nil {
		return err
	}
	metrics, err := marshalJSON(c.Metrics)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO content (`+contentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Type, c.Title, c.Platform, c.Status, c.Views,
		c.Revenue, tags, metrics, toNullTime(c.PublishedAt),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating content: %w", err)
	}
	return nil
}

func scanContent(scan func(...any) error) (*model.Content, error) {
	var c model.Content
	var tags, metrics string
	var publishedAt sql.NullTime
	err := scan(
		&c.ID, &c.UserID, &c.Type, &c.Title, &c.Platform, &c.Status,
		&c.Views, &c.Revenue, &tags, &metrics, &publishedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Tags = []string{}
	if err := unmarshalJSON(tags, &c.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(metrics, &c.Metrics); err != nil {
		return nil, err
	}
	c.PublishedAt = timePtr(publishedAt)
	return &c, nil
}

// GetContentByID fetches a piece scoped by (id, userID).
func (db *DB) GetContentByID(ctx context.Context, id, userID string) (*model.Content, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	c, err := scanContent(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("content", id)
		}
		return nil, fmt.Errorf("sqlite: getting content %s: %w", id, err)
	}
	return c, nil
}

// ListContent returns the caller's content, newest first, narrowed by
// the whitelisted filter fields.
func (db *DB) ListContent(ctx context.Context, userID string, filter repository.ContentFilter) ([]model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE user_id = ?`
	args := []any{userID}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, filter.Platform)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing content: %w", err)
	}
	defer rows.Close()

	pieces := []model.Content{}
	for rows.Next() {
		c, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning content row: %w", err)
		}
		pieces = append(pieces, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating content: %w", err)
	}
	return pieces, nil
}

// UpdateContent rewrites a piece's mutable fields, scoped by (id, user_id).
func (db *DB) UpdateContent(ctx context.Context, c *model.Content) error {
	c.UpdatedAt = time.Now()

	tags, err := marshalJSON(c.Tags)
	if err != nil {
		return err
	}
	metrics, err := marshalJSON(c.Metrics)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE content
		 SET type = ?, title = ?, platform = ?, status = ?, views = ?,
		     revenue = ?, tags = ?, metrics = ?, published_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Type, c.Title, c.Platform, c.Status, c.Views,
		c.Revenue, tags, metrics, toNullTime(c.PublishedAt), c.UpdatedAt,
		c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating content %s: %w", c.ID, err)
	}
	return checkAffected(result, "content", c.ID)
}

// DeleteContent removes a piece scoped by (id, userID).
func (db *DB) DeleteContent(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM content WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting content %s: %w", id, err)
	}
	return checkAffected(result, "content", id)
}
