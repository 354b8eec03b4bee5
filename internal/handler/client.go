package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/repository"
	"github.com/cashflowcoders/devplanner/internal/service"
)

// ClientHandler manages CRUD for client engagements.
type ClientHandler struct {
	svc    *service.ClientService
	logger *slog.Logger
}

func NewClientHandler(svc *service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{svc: svc, logger: logger}
}

// HandleCreate creates a client engagement.
//
// HTTP: POST /api/clients
func (h *ClientHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Create(r.Context(), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"client": c})
}

// HandleList returns the caller's clients, optionally filtered.
//
// HTTP: GET /api/clients?status=active&paymentStatus=partial
func (h *ClientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repository.ClientFilter{
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
	}

	clients, err := h.svc.List(r.Context(), ident.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"clients": clients})
}

// HandleGet returns one engagement by ID.
//
// HTTP: GET /api/clients/{id}
func (h *ClientHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	c, err := h.svc.GetByID(r.Context(), r.PathValue("id"), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"client": c})
}

// HandleUpdate replaces an engagement's writable fields.
//
// HTTP: PUT /api/clients/{id}
func (h *ClientHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in service.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Update(r.Context(), r.PathValue("id"), ident.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"client": c})
}

// HandleDelete removes an engagement.
//
// HTTP: DELETE /api/clients/{id}
func (h *ClientHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
