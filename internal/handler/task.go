package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cashflowcoders/devplanner/internal/repository"
	"github.com/cashflowcoders/devplanner/internal/service"
)

// TaskHandler manages CRUD for tasks.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// HandleCreate creates a task for the authenticated user.
//
// HTTP: POST /api/tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Create(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"task": task})
}

// HandleList returns the caller's tasks, optionally filtered.
//
// HTTP: GET /api/tasks?category=work&priority=high&completed=false
//
// Unknown query parameters are ignored; only the whitelisted filter
// fields ever reach the store.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repository.TaskFilter{
		Category: q.Get("category"),
		Priority: q.Get("priority"),
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	tasks, err := h.svc.List(r.Context(), ident.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"tasks": tasks})
}

// HandleGet returns one task by ID.
//
// HTTP: GET /api/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	task, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"task": task})
}

// HandleUpdate replaces a task's writable fields. A stale version in the
// body comes back as 409; omitting version skips the check.
//
// HTTP: PUT /api/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"task": task})
}

// HandleDelete removes a task.
//
// HTTP: DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), r.PathValue("id"), ident.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseListOptions reads shared pagination/date-range query parameters
// for the date-keyed resources.
func parseListOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	opts := repository.ListOptions{
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}
	return opts
}
