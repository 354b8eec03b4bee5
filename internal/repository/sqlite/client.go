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

var _ repository.ClientRepository = (*DB)(nil)

const clientColumns = `id, user_id, name, project, budget, status,
	payment_status, paid_amount, created_at, updated_at`

// CreateClient inserts a client engagement owned by c.UserID.
func (db *DB) CreateClient(ctx context.Context, c *model.Client) error {
	c.ID = xid.New().String()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Project, c.Budget, c.Status,
		c.PaymentStatus, c.PaidAmount, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating client: %w", err)
	}
	return nil
}

func scanClient(scan func(...any) error) (*model.Client, error) {
	var c model.Client
	err := scan(
		&c.ID, &c.UserID, &c.Name, &c.Project, &c.Budget, &c.Status,
		&c.PaymentStatus, &c.PaidAmount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetClientByID fetches a client scoped by (id, userID).
func (db *DB) GetClientByID(ctx context.Context, id, userID string) (*model.Client, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	c, err := scanClient(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("client", id)
		}
		return nil, fmt.Errorf("sqlite: getting client %s: %w", id, err)
	}
	return c, nil
}

// ListClients returns the caller's clients, newest first, narrowed by
// the whitelisted filter fields.
func (db *DB) ListClients(ctx context.Context, userID string, filter repository.ClientFilter) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		query += ` AND payment_status = ?`
		args = append(args, filter.PaymentStatus)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing clients: %w", err)
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning client row: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating clients: %w", err)
	}
	return clients, nil
}

// UpdateClient rewrites a client's mutable fields, scoped by (id, user_id).
func (db *DB) UpdateClient(ctx context.Context, c *model.Client) error {
	c.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE clients
		 SET name = ?, project = ?, budget = ?, status = ?,
		     payment_status = ?, paid_amount = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, c.Project, c.Budget, c.Status,
		c.PaymentStatus, c.PaidAmount, c.UpdatedAt,
		c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating client %s: %w", c.ID, err)
	}
	return checkAffected(result, "client", c.ID)
}

// DeleteClient removes a client scoped by (id, userID).
func (db *DB) DeleteClient(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting client %s: %w", id, err)
	}
	return checkAffected(result, "client", id)
}
