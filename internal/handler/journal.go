package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/service"
)

// JournalHandler manages CRUD for daily journal entries.
type JournalHandler struct {
	svc    *service.JournalService
	logger *slog.Logger
}

func NewJournalHandler(svc *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, logger: logger}
}

// HandleCreate writes a journal entry. A second entry for the same day
// is a 409 — edit the existing one instead.
//
// HTTP: POST /api/journal
func (h *JournalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.JournalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	j, err := h.svc.Create(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"journal": j})
}

// HandleList returns the caller's entries, newest day first.
//
// HTTP: GET /api/journal?from=2026-01-01&to=2026-01-31&limit=31&offset=0
func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.List(r.Context(), ident.ID, parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"journal": entries})
}

// HandleGet returns one entry by ID.
//
// HTTP: GET /api/journal/{id}
func (h *JournalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	j, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"journal": j})
}

// HandleUpdate replaces an entry's writable fields (not its date) and
// rederives the word count.
//
// HTTP: PUT /api/journal/{id}
func (h *JournalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.JournalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	j, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"journal": j})
}

// HandleDelete removes an entry.
//
// HTTP: DELETE /api/journal/{id}
func (h *JournalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
