package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/ecotrack/internal/auth"
	"github.com/dukerupert/ecotrack/internal/gamify"
)

type ChallengeHandler struct {
	svc    *gamify.Service
	logger *slog.Logger
}

func NewChallengeHandler(svc *gamify.Service, logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{svc: svc, logger: logger}
}

// Daily lists today's sampled challenges.
func (h *ChallengeHandler) Daily(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.DailyChallenges(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}
	if list == nil {
		list = []gamify.DailyChallenge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "challenges": list})
}

type toggleRequest struct {
	ChallengeID number `json:"challenge_id"`
	Completed   bool   `json:"completed"`
}

func (h *ChallengeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	challengeID, ok := req.ChallengeID.ID()
	if !ok {
		writeError(w, http.StatusBadRequest, "challenge_id is required")
		return
	}

	userID := auth.UserID(r.Context())
	uc, err := h.svc.Toggle(r.Context(), userID, challengeID, req.Completed)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "challenge not found")
		return
	}
	points, err := h.svc.Points(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"challenge_id": uc.ChallengeID,
		"completed":    uc.Completed,
		"completed_at": uc.CompletedAt,
		"points":       points,
	})
}
