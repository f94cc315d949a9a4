package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/ecotrack/internal/model"
)

// PointsStore reads and rebuilds the user_points cache. The cache is also
// refreshed by UserChallengeStore and ChallengeStore inside their write
// transactions, so at rest total_points equals the sum of points over the
// user's completed user_challenges rows.
type PointsStore struct {
	db *sql.DB
}

func NewPointsStore(db *sql.DB) *PointsStore {
	return &PointsStore{db: db}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// recomputePoints rebuilds one user's cached total from user_challenges.
func recomputePoints(ex execer, userID int64) error {
	_, err := ex.Exec(`
		INSERT INTO user_points (user_id, total_points, updated_at)
		VALUES (?, (
			SELECT COALESCE(SUM(c.points), 0)
			FROM user_challenges uc
			JOIN challenges c ON c.id = uc.challenge_id
			WHERE uc.user_id = ? AND uc.completed = 1
		), ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_points = excluded.total_points,
			updated_at = excluded.updated_at`,
		userID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recompute points for user %d: %w", userID, err)
	}
	return nil
}

func scanPoints(scanner interface{ Scan(...any) error }) (*model.UserPoints, error) {
	var p model.UserPoints
	err := scanner.Scan(&p.UserID, &p.TotalPoints, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns the cached row, or nil if none exists yet.
func (s *PointsStore) Get(userID int64) (*model.UserPoints, error) {
	row := s.db.QueryRow(`SELECT user_id, total_points, updated_at FROM user_points WHERE user_id = ?`, userID)
	p, err := scanPoints(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}
	return p, nil
}

// Recompute rebuilds and returns the user's cached total.
func (s *PointsStore) Recompute(userID int64) (*model.UserPoints, error) {
	if err := recomputePoints(s.db, userID); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// GetOrRecompute prefers the cached row and builds it on first read.
func (s *PointsStore) GetOrRecompute(userID int64) (*model.UserPoints, error) {
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	return s.Recompute(userID)
}

// SumCompleted computes the total directly from user_challenges, bypassing the cache.
func (s *PointsStore) SumCompleted(userID int64) (int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(c.points), 0)
		FROM user_challenges uc
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = ? AND uc.completed = 1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum completed points: %w", err)
	}
	return total, nil
}
