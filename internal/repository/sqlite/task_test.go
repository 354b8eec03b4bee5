package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

func createTestTask(t *testing.T, db *DB, userID, title string) *model.Task {
	t.Helper()
	task := &model.Task{
		UserID:   userID,
		Title:    title,
		Category: "work",
		Priority: "medium",
	}
	if err := db.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "tasks@example.com")

	task := createTestTask(t, db, u.ID, "write tests")

	if task.ID == "" {
		t.Error("CreateTask() did not set task.ID")
	}
	if task.Version != 1 {
		t.Errorf("Version = %d, want 1", task.Version)
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreateTask() did not set task.CreatedAt")
	}
}

// A task owned by another user must be indistinguishable from a
// nonexistent one.
func TestGetTaskByID_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	task := createTestTask(t, db, owner.ID, "private")

	if _, err := db.GetTaskByID(context.Background(), task.ID, owner.ID); err != nil {
		t.Fatalf("owner GetTaskByID() error = %v", err)
	}

	_, err := db.GetTaskByID(context.Background(), task.ID, other.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("other user GetTaskByID() error = %v, want ErrNotFound", err)
	}
}

func TestListTasks_ScopedAndFiltered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "list@example.com")
	other := createTestUser(t, db, "noise@example.com")

	createTestTask(t, db, u.ID, "work one")
	deep := createTestTask(t, db, u.ID, "deep work")
	deep.Completed = true
	if err := db.UpdateTask(ctx, deep); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	personal := &model.Task{UserID: u.ID, Title: "groceries", Category: "personal", Priority: "low"}
	if err := db.CreateTask(ctx, personal); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	createTestTask(t, db, other.ID, "someone else's")

	all, err := db.ListTasks(ctx, u.ID, repository.TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListTasks() returned %d tasks, want 3 (never another user's)", len(all))
	}

	work, err := db.ListTasks(ctx, u.ID, repository.TaskFilter{Category: "work"})
	if err != nil {
		t.Fatalf("ListTasks(category) error = %v", err)
	}
	if len(work) != 2 {
		t.Errorf("category filter returned %d, want 2", len(work))
	}

	done := true
	completed, err := db.ListTasks(ctx, u.ID, repository.TaskFilter{Completed: &done})
	if err != nil {
		t.Fatalf("ListTasks(completed) error = %v", err)
	}
	if len(completed) != 1 || completed[0].ID != deep.ID {
		t.Errorf("completed filter returned %d tasks, want just the completed one", len(completed))
	}
}

func TestUpdateTask_BumpsVersion(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "version@example.com")
	task := createTestTask(t, db, u.ID, "v1")

	task.Title = "v2"
	if err := db.UpdateTask(context.Background(), task); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if task.Version != 2 {
		t.Errorf("Version after update = %d, want 2", task.Version)
	}

	found, _ := db.GetTaskByID(context.Background(), task.ID, u.ID)
	if found.Title != "v2" {
		t.Errorf("Title = %q, want %q", found.Title, "v2")
	}
	if found.Version != 2 {
		t.Errorf("stored Version = %d, want 2", found.Version)
	}
}

// Two writers fetch the same task; the second write is based on a stale
// version and must come back as a conflict, not silently clobber.
func TestUpdateTask_StaleVersionConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "conflict@example.com")
	task := createTestTask(t, db, u.ID, "original")

	first, _ := db.GetTaskByID(ctx, task.ID, u.ID)
	second, _ := db.GetTaskByID(ctx, task.ID, u.ID)

	first.Title = "writer one"
	if err := db.UpdateTask(ctx, first); err != nil {
		t.Fatalf("first UpdateTask() error = %v", err)
	}

	second.Title = "writer two"
	err := db.UpdateTask(ctx, second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("stale UpdateTask() error = %v, want ErrConflict", err)
	}

	found, _ := db.GetTaskByID(ctx, task.ID, u.ID)
	if found.Title != "writer one" {
		t.Errorf("Title = %q, stale writer must not win", found.Title)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "gone@example.com")

	task := &model.Task{ID: "nonexistent", UserID: u.ID, Title: "ghost", Version: 1}
	err := db.UpdateTask(context.Background(), task)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateTask() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteTask_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "del-owner@example.com")
	other := createTestUser(t, db, "del-other@example.com")
	task := createTestTask(t, db, owner.ID, "to delete")

	err := db.DeleteTask(ctx, task.ID, other.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("other user DeleteTask() error = %v, want ErrNotFound", err)
	}

	if err := db.DeleteTask(ctx, task.ID, owner.ID); err != nil {
		t.Fatalf("owner DeleteTask() error = %v", err)
	}

	_, err = db.GetTaskByID(ctx, task.ID, owner.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetTaskByID() after delete error = %v, want ErrNotFound", err)
	}
}
