package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/ecotrack/internal/auth"
	"github.com/dukerupert/ecotrack/internal/store"
)

// SessionCookieName holds the opaque session token.
const SessionCookieName = "ecotrack_session"

// RequireAuth resolves the session cookie to a user and attaches its
// Identity. Missing, unknown or expired sessions get a 401 JSON body.
func RequireAuth(sessions *store.SessionStore, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(sess.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID:    user.ID,
				Username:  user.Username,
				SessionID: sess.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "authentication required")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
