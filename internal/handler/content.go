package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/repository"
	"github.com/cashflowcoders/devplanner/internal/service"
)

// ContentHandler manages CRUD for content pieces.
type ContentHandler struct {
	svc    *service.ContentService
	logger *slog.Logger
}

func NewContentHandler(svc *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, logger: logger}
}

// HandleCreate creates a content piece.
//
// HTTP: POST /api/content
func (h *ContentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ContentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Create(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"content": c})
}

// HandleList returns the caller's content, optionally filtered.
//
// HTTP: GET /api/content?type=video&status=published&platform=youtube
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repository.ContentFilter{
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		Platform: q.Get("platform"),
	}

	pieces, err := h.svc.List(r.Context(), ident.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"content": pieces})
}

// HandleGet returns one piece by ID.
//
// HTTP: GET /api/content/{id}
func (h *ContentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	c, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"content": c})
}

// HandleUpdate replaces a piece's writable fields.
//
// HTTP: PUT /api/content/{id}
func (h *ContentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ContentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"content": c})
}

// HandleDelete removes a piece.
//
// HTTP: DELETE /api/content/{id}
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
