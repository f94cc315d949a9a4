package handler

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/ecotrack/internal/middleware"
	"github.com/dukerupert/ecotrack/internal/model"
	"github.com/dukerupert/ecotrack/internal/store"
)

const minPasswordLen = 8

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	logger       *slog.Logger
	bcryptCost   int
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		logger:       logger,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	var problems []string
	if req.Username == "" {
		problems = append(problems, "Username is required.")
	}
	if req.Email == "" {
		problems = append(problems, "Email is required.")
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		problems = append(problems, "Enter a valid email address.")
	}
	if req.Password == "" {
		problems = append(problems, "Password is required.")
	} else if len(req.Password) < minPasswordLen {
		problems = append(problems, "Password must be at least 8 characters.")
	}
	if req.Password != req.ConfirmPassword {
		problems = append(problems, "Passwords do not match.")
	}

	if len(problems) == 0 {
		taken, err := h.taken(req.Username, req.Email)
		if err != nil {
			h.logger.Error("signup lookup", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create account")
			return
		}
		problems = append(problems, taken...)
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   problems[0],
			"errors":  problems,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user, err := h.userStore.Create(req.Username, req.Email, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	h.logger.Info("user signed up", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": user})
}

func (h *AuthHandler) taken(username, email string) ([]string, error) {
	var problems []string
	existing, err := h.userStore.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		problems = append(problems, "Username is already taken.")
	}
	existing, err = h.userStore.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		problems = append(problems, "Email is already registered.")
	}
	return problems, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// lookup resolves a login identifier as a username first, then as an email.
func (h *AuthHandler) lookup(identifier string) (*model.User, error) {
	user, err := h.userStore.GetByUsername(identifier)
	if err != nil || user != nil {
		return user, err
	}
	if strings.Contains(identifier, "@") {
		return h.userStore.GetByEmail(identifier)
	}
	return nil, nil
}

const badCredentials = "invalid username/email or password"

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.lookup(req.Username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, badCredentials)
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	// Without remember the cookie ends with the browser session; the
	// server-side session still expires after the TTL.
	if req.Remember {
		cookie.Expires = sess.ExpiresAt
		cookie.MaxAge = int(h.sessionStore.TTL().Seconds())
	}
	http.SetCookie(w, cookie)

	h.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		sess, err := h.sessionStore.GetByToken(cookie.Value)
		if err != nil {
			h.logger.Error("logout lookup", "error", err)
		} else if sess != nil {
			if err := h.sessionStore.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "session_id", sess.ID, "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
