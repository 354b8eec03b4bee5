package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/repository"
	"github.com/cashflowcoders/devplanner/internal/service"
)

// OutreachHandler manages CRUD for outreach attempts.
type OutreachHandler struct {
	svc    *service.OutreachService
	logger *slog.Logger
}

func NewOutreachHandler(svc *service.OutreachService, logger *slog.Logger) *OutreachHandler {
	return &OutreachHandler{svc: svc, logger: logger}
}

// HandleCreate records an outreach attempt.
//
// HTTP: POST /api/outreach
func (h *OutreachHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.OutreachInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	o, err := h.svc.Create(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"outreach": o})
}

// HandleList returns the caller's attempts, optionally filtered.
//
// HTTP: GET /api/outreach?type=email&status=replied
func (h *OutreachHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repository.OutreachFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}

	attempts, err := h.svc.List(r.Context(), ident.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"outreach": attempts})
}

// HandleGet returns one attempt by ID.
//
// HTTP: GET /api/outreach/{id}
func (h *OutreachHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"outreach": o})
}

// HandleUpdate replaces an attempt's writable fields, stamping the first
// transition into opened/replied.
//
// HTTP: PUT /api/outreach/{id}
func (h *OutreachHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.OutreachInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	o, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"outreach": o})
}

// HandleDelete removes an attempt.
//
// HTTP: DELETE /api/outreach/{id}
func (h *OutreachHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
