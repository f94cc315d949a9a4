// Package gamify keeps badges, challenge completions and points consistent
// with a user's activity log. Activity writes are authoritative; everything
// that follows from them (badge awards, challenge linkage, the matcher) is
// best-effort and never fails the write.
package gamify

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/ecotrack/internal/store"
	"github.com/dukerupert/ecotrack/internal/websocket"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// ValidationError carries a message safe to show the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// Notifier delivers live updates to a user's open connections.
type Notifier interface {
	BroadcastTo(userID int64, msg websocket.Message)
}

type Service struct {
	activities     *store.ActivityStore
	badges         *store.BadgeStore
	challenges     *store.ChallengeStore
	userChallenges *store.UserChallengeStore
	points         *store.PointsStore
	notifier       Notifier
	logger         *slog.Logger
	now            func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mainly so tests can pin the UTC+8 day.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func New(db *sql.DB, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		activities:     store.NewActivityStore(db),
		badges:         store.NewBadgeStore(db),
		challenges:     store.NewChallengeStore(db),
		userChallenges: store.NewUserChallengeStore(db),
		points:         store.NewPointsStore(db),
		logger:         logger.With("component", "gamify"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// bestEffort runs fn and swallows its error or panic after logging it.
// It reports whether fn succeeded.
func (s *Service) bestEffort(ctx context.Context, op string, userID int64, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WarnContext(ctx, "side effect panicked", "op", op, "user_id", userID, "panic", r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		s.logger.WarnContext(ctx, "side effect failed", "op", op, "user_id", userID, "error", err)
		return false
	}
	return true
}

func (s *Service) notify(userID int64, entity, action string, id int64, extra map[string]any) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastTo(userID, websocket.NewMessage(entity, action, id, extra))
}
