package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/ecotrack/internal/auth"
	"github.com/dukerupert/ecotrack/internal/footprint"
	"github.com/dukerupert/ecotrack/internal/gamify"
)

type DashboardHandler struct {
	svc    *gamify.Service
	logger *slog.Logger
}

func NewDashboardHandler(svc *gamify.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*gamify.Dashboard
	}{true, dash})
}

// Status reports points and per-badge progress.
func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*gamify.Status
	}{true, st})
}

func (h *DashboardHandler) Timeseries(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.Timeseries(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		footprint.Series
	}{true, series})
}
