package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

// Hand-written in-memory mock of repository.TaskRepository. Tests here
// exercise only the service logic; the SQL behavior has its own tests.
type mockTaskRepo struct {
	tasks  map[string]*model.Task
	nextID int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) CreateTask(_ context.Context, task *model.Task) error {
	m.nextID++
	task.ID = fmt.Sprintf("task-%d", m.nextID)
	task.Version = 1
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockTaskRepo) GetTaskByID(_ context.Context, id, userID string) (*model.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, apperror.NotFound("task", id)
	}
	result := *task
	return &result, nil
}

func (m *mockTaskRepo) ListTasks(_ context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	result := []model.Task{}
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		result = append(result, *task)
	}
	return result, nil
}

func (m *mockTaskRepo) UpdateTask(_ context.Context, task *model.Task) error {
	stored, ok := m.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return apperror.NotFound("task", task.ID)
	}
	if stored.Version != task.Version {
		return apperror.Conflict("task was modified concurrently")
	}
	task.Version++
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepo) DeleteTask(_ context.Context, id, userID string) error {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return apperror.NotFound("task", id)
	}
	delete(m.tasks, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTaskService(t *testing.T) *TaskService {
	t.Helper()
	return NewTaskService(newMockTaskRepo(), testLogger())
}

func TestTaskCreate_Defaults(t *testing.T) {
	svc := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "user-1", TaskInput{Title: "  solve two problems  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.Title != "solve two problems" {
		t.Errorf("Title = %q, want trimmed", task.Title)
	}
	if task.Category != "personal" {
		t.Errorf("Category = %q, want default %q", task.Category, "personal")
	}
	if task.Priority != "medium" {
		t.Errorf("Priority = %q, want default %q", task.Priority, "medium")
	}
	if task.CompletedAt != nil {
		t.Error("CompletedAt should be nil for an incomplete task")
	}
}

func TestTaskCreate_EmptyTitle(t *testing.T) {
	svc := newTestTaskService(t)

	_, err := svc.Create(context.Background(), "user-1", TaskInput{Title: "   "})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestTaskCreate_TitleTooLong(t *testing.T) {
	svc := newTestTaskService(t)

	_, err := svc.Create(context.Background(), "user-1", TaskInput{Title: strings.Repeat("a", maxTitleLength+1)})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestTaskCreate_UnknownCategory(t *testing.T) {
	svc := newTestTaskService(t)

	_, err := svc.Create(context.Background(), "user-1", TaskInput{Title: "x", Category: "yardwork"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestTaskCreate_CompletedStampsTimestamp(t *testing.T) {
	svc := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "user-1", TaskInput{Title: "done already", Completed: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.CompletedAt == nil {
		t.Error("CompletedAt should be stamped when created completed")
	}
}

func TestTaskUpdate_CompletionTransitions(t *testing.T) {
	svc := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", TaskInput{Title: "toggle me", Category: "learning"})

	// false → true stamps completedAt
	updated, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "toggle me", Category: "learning", Completed: true})
	if err != nil {
		t.Fatalf("Update() to completed error = %v", err)
	}
	if !updated.Completed || updated.CompletedAt == nil {
		t.Error("completing a task should stamp CompletedAt")
	}

	// true → false clears it
	reverted, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "toggle me", Category: "learning"})
	if err != nil {
		t.Fatalf("Update() to incomplete error = %v", err)
	}
	if reverted.Completed || reverted.CompletedAt != nil {
		t.Error("un-completing a task should clear CompletedAt")
	}
}

func TestTaskUpdate_StaleVersionConflict(t *testing.T) {
	svc := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", TaskInput{Title: "contended"})

	// First writer succeeds at version 1.
	if _, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "first", Version: 1}); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}

	// Second writer still asserts version 1 — stale.
	_, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "second", Version: 1})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("stale Update() error = %v, want ErrConflict", err)
	}
}

// Omitting version keeps the old last-writer-wins behavior.
func TestTaskUpdate_NoVersionSkipsCheck(t *testing.T) {
	svc := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", TaskInput{Title: "unguarded"})

	if _, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "one"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := svc.Update(ctx, task.ID, "user-1", TaskInput{Title: "two"}); err != nil {
		t.Fatalf("second versionless Update() error = %v", err)
	}
}

func TestTaskList_RejectsUnknownFilterValue(t *testing.T) {
	svc := newTestTaskService(t)

	_, err := svc.List(context.Background(), "user-1", repository.TaskFilter{Priority: "urgent"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestTaskGetByID_OtherUser(t *testing.T) {
	svc := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", TaskInput{Title: "mine"})

	_, err := svc.GetByID(ctx, task.ID, "user-2")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
