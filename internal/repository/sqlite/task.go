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

var _ repository.TaskRepository = (*DB)(nil)

const taskColumns = `id, user_id, title, category, priority, completed,
	completed_at, due_date, estimated_minutes, version, created_at, updated_at`

// CreateTask inserts a task owned by task.UserID.
func (db *DB) CreateTask(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Version = 1

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Category, task.Priority,
		task.Completed, toNullTime(task.CompletedAt), toNullTime(task.DueDate),
		task.EstimatedMinutes, task.Version, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}
	return nil
}

func scanTask(scan func(...any) error) (*model.Task, error) {
	var t model.Task
	var completedAt, dueDate sql.NullTime
	err := scan(
		&t.ID, &t.UserID, &t.Title, &t.Category, &t.Priority, &t.Completed,
		&completedAt, &dueDate, &t.EstimatedMinutes, &t.Version,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.CompletedAt = timePtr(completedAt)
	t.DueDate = timePtr(dueDate)
	return &t, nil
}

// GetTaskByID fetches a task scoped by (id, userID). A task owned by
// another user is indistinguishable from a nonexistent one.
func (db *DB) GetTaskByID(ctx context.Context, id, userID string) (*model.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	t, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}
	return t, nil
}

// ListTasks returns the caller's tasks, newest first, narrowed by the
// whitelisted filter fields. The WHERE clause is assembled only from
// typed filter values — never from raw query strings.
func (db *DB) ListTasks(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask writes a task back, scoped by (id, user_id) and guarded by
// the version check: the row is only touched if it still carries the
// version this write was based on. Version bumps on every write, so a
// stale writer gets 0 rows affected. We then distinguish "gone" from
// "stale" with a scoped existence probe.
func (db *DB) UpdateTask(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()
	baseVersion := task.Version

	result, err := db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, category = ?, priority = ?, completed = ?,
		     completed_at = ?, due_date = ?, estimated_minutes = ?,
		     version = version + 1, updated_at = ?
		 WHERE id = ? AND user_id = ? AND version = ?`,
		task.Title, task.Category, task.Priority, task.Completed,
		toNullTime(task.CompletedAt), toNullTime(task.DueDate),
		task.EstimatedMinutes, task.UpdatedAt,
		task.ID, task.UserID, baseVersion,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		var exists int
		err := db.conn.QueryRowContext(ctx,
			`SELECT 1 FROM tasks WHERE id = ? AND user_id = ?`,
			task.ID, task.UserID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperror.NotFound("task", task.ID)
		}
		if err != nil {
			return fmt.Errorf("sqlite: probing task %s: %w", task.ID, err)
		}
		return apperror.Conflict("task was modified concurrently")
	}

	task.Version = baseVersion + 1
	return nil
}

// DeleteTask removes a task scoped by (id, userID).
func (db *DB) DeleteTask(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}
	return checkAffected(result, "task", id)
}
