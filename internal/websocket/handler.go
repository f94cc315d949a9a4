package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/ecotrack/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and attaches the
// connection to the caller's user.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept", "user_id", userID, "error", err)
			return
		}

		logger.Debug("websocket connected", "user_id", userID)
		if err := NewClient(hub, conn, userID).Run(r.Context()); err != nil {
			logger.Debug("websocket closed", "user_id", userID, "error", err)
		}
	}
}
