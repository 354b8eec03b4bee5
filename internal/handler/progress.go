package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/service"
)

// ProgressHandler manages daily progress logs.
type ProgressHandler struct {
	svc    *service.ProgressService
	logger *slog.Logger
}

func NewProgressHandler(svc *service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, logger: logger}
}

// HandleLog records a day's progress. Posting a second time for the same
// date updates the existing record — the response is 201 either way, and
// the body carries the canonical row.
//
// HTTP: POST /api/progress
func (h *ProgressHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ProgressInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.Log(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"progress": p})
}

// HandleList returns the caller's logs, newest day first.
//
// HTTP: GET /api/progress?from=2026-01-01&to=2026-01-31&limit=31&offset=0
func (h *ProgressHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.List(r.Context(), ident.ID, parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"progress": entries})
}

// HandleGet returns one log by ID.
//
// HTTP: GET /api/progress/{id}
func (h *ProgressHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"progress": p})
}

// HandleUpdate replaces a log's writable fields (not its date).
//
// HTTP: PUT /api/progress/{id}
func (h *ProgressHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ProgressInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"progress": p})
}

// HandleDelete removes a log.
//
// HTTP: DELETE /api/progress/{id}
func (h *ProgressHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
