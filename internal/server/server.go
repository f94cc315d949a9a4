package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/ecotrack/internal/gamify"
	"github.com/dukerupert/ecotrack/internal/handler"
	"github.com/dukerupert/ecotrack/internal/middleware"
	"github.com/dukerupert/ecotrack/internal/store"
	ws "github.com/dukerupert/ecotrack/internal/websocket"
)

// Auth endpoints allow this many attempts per client per window.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	engine       *gamify.Service
	authH        *handler.AuthHandler
	activityH    *handler.ActivityHandler
	challengeH   *handler.ChallengeHandler
	dashboardH   *handler.DashboardHandler
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, sessionTTL time.Duration, logger *slog.Logger, opts ...gamify.Option) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db, sessionTTL)

	opts = append([]gamify.Option{gamify.WithNotifier(hub)}, opts...)
	engine := gamify.New(db, logger, opts...)

	handlerLogger := logger.With("component", "handler")

	return &Server{
		db:           db,
		hub:          hub,
		engine:       engine,
		authH:        handler.NewAuthHandler(userStore, sessionStore, handlerLogger),
		activityH:    handler.NewActivityHandler(engine, handlerLogger),
		challengeH:   handler.NewChallengeHandler(engine, handlerLogger),
		dashboardH:   handler.NewDashboardHandler(engine, handlerLogger),
		userStore:    userStore,
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// Hub returns the live update hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.RequestID(logged)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Activities
	mux.HandleFunc("POST /api/activities", s.activityH.Create)
	mux.HandleFunc("GET /api/activities", s.activityH.List)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activityH.Delete)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Show)
	mux.HandleFunc("GET /api/dashboard/status", s.dashboardH.Status)
	mux.HandleFunc("GET /api/dashboard/timeseries", s.dashboardH.Timeseries)

	// Challenges
	mux.HandleFunc("GET /api/challenges", s.challengeH.Daily)
	mux.HandleFunc("POST /api/challenges/toggle", s.challengeH.Toggle)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.ByIP, middleware.Limit{Requests: authRateLimit, Per: authRateWindow})(h).ServeHTTP
}
