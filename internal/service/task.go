package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

const maxTitleLength = 200

// TaskInput carries the client-writable task fields. On update it is a
// full replacement of those fields, not a merge.
type TaskInput struct {
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	Priority         string     `json:"priority"`
	Completed        bool       `json:"completed"`
	DueDate          *time.Time `json:"dueDate"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	Version          int64      `json:"version"` // optional; 0 skips the conflict check
}

// TaskService handles business logic for daily tasks.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) validate(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.ValidationFailed("title", "task title is required")
	}
	if len(in.Title) > maxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("task title must be %d characters or less", maxTitleLength))
	}

	var err error
	if in.Category, err = validateEnum("category", in.Category, "personal", TaskCategories); err != nil {
		return err
	}
	if in.Priority, err = validateEnum("priority", in.Priority, "medium", TaskPriorities); err != nil {
		return err
	}
	if in.EstimatedMinutes < 0 {
		return apperror.ValidationFailed("estimatedMinutes", "estimated minutes cannot be negative")
	}
	return nil
}

// Create validates and saves a new task for userID.
func (s *TaskService) Create(ctx context.Context, userID string, in TaskInput) (*model.Task, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:           userID,
		Title:            in.Title,
		Category:         in.Category,
		Priority:         in.Priority,
		Completed:        in.Completed,
		DueDate:          in.DueDate,
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if task.Completed {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("id", task.ID),
		slog.String("userID", userID),
	)
	return task, nil
}

// GetByID fetches one task scoped to the caller.
func (s *TaskService) GetByID(ctx context.Context, id, userID string) (*model.Task, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "task ID is required")
	}
	return s.repo.GetTaskByID(ctx, id, userID)
}

// List returns the caller's tasks narrowed by the whitelisted filter.
func (s *TaskService) List(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	var err error
	if filter.Category != "" {
		if filter.Category, err = validateEnum("category", filter.Category, "", TaskCategories); err != nil {
			return nil, err
		}
	}
	if filter.Priority != "" {
		if filter.Priority, err = validateEnum("priority", filter.Priority, "", TaskPriorities); err != nil {
			return nil, err
		}
	}

	tasks, err := s.repo.ListTasks(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces a task's writable fields.
//
// The completed transition owns completedAt: flipping to true stamps it
// (first time only), flipping to false clears it. A non-zero in.Version
// asserts the task hasn't changed since that version was read — a stale
// assertion comes back as a conflict instead of silently clobbering.
func (s *TaskService) Update(ctx context.Context, id, userID string, in TaskInput) (*model.Task, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "task ID is required")
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTaskByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case in.Completed && !task.Completed:
		now := time.Now()
		task.CompletedAt = &now
	case !in.Completed:
		task.CompletedAt = nil
	}

	task.Title = in.Title
	task.Category = in.Category
	task.Priority = in.Priority
	task.Completed = in.Completed
	task.DueDate = in.DueDate
	task.EstimatedMinutes = in.EstimatedMinutes
	if in.Version > 0 {
		task.Version = in.Version
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logger.Info("task updated", slog.String("id", task.ID))
	return task, nil
}

// Delete removes a task scoped to the caller. Permanent — no soft
// delete, no audit trail.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "task ID is required")
	}
	if err := s.repo.DeleteTask(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.String("id", id))
	return nil
}
