package handler

import (
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/service"
)

// DashboardHandler serves the aggregated stats snapshot.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// HandleStats returns the caller's dashboard snapshot: task counts and
// completion rate, revenue totals with week/month windows, content and
// client counts, outreach reply rate, and the last 7 progress logs.
//
// HTTP: GET /api/dashboard/stats
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(r.Context(), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stats": stats})
}
