package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/ecotrack/internal/auth"
	"github.com/dukerupert/ecotrack/internal/gamify"
	"github.com/dukerupert/ecotrack/internal/model"
)

type ActivityHandler struct {
	svc    *gamify.Service
	logger *slog.Logger
}

func NewActivityHandler(svc *gamify.Service, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

type activityRequest struct {
	Category string  `json:"category"`
	Subtype  *string `json:"subtype"`
	Type     *string `json:"type"`
	Distance number  `json:"distance"`
	Amount   number  `json:"amount"`
	Impact   number  `json:"impact"`
	Date     *string `json:"date"`
}

// subtype prefers "subtype" and falls back to the older "type" key.
func (req activityRequest) subtype() *string {
	if req.Subtype != nil && strings.TrimSpace(*req.Subtype) != "" {
		return req.Subtype
	}
	return req.Type
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	res, err := h.svc.CreateActivity(r.Context(), auth.UserID(r.Context()), model.NewActivity{
		Category: req.Category,
		Subtype:  req.subtype(),
		Distance: req.Distance.Float(),
		Amount:   req.Amount.Float(),
		Impact:   req.Impact.Decimal(),
		Date:     req.Date,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err, "activity not found")
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool `json:"success"`
		*gamify.CreateResult
	}{true, res})
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Activities(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*gamify.ActivityList
	}{true, list})
}

// Delete removes the activity and answers with the refreshed dashboard.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.svc.DeleteActivity(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, r, err, "activity not found")
		return
	}

	dash, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*gamify.Dashboard
	}{true, dash})
}
