package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/ecotrack/internal/model"
)

// UserChallengeStore owns per-user completion rows. Every write runs in a
// transaction that finishes by rebuilding the user's points cache.
type UserChallengeStore struct {
	db *sql.DB
}

func NewUserChallengeStore(db *sql.DB) *UserChallengeStore {
	return &UserChallengeStore{db: db}
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func scanUserChallenge(scanner interface{ Scan(...any) error }) (*model.UserChallenge, error) {
	var uc model.UserChallenge
	var completed int
	var completedAt sql.NullTime

	err := scanner.Scan(&uc.ID, &uc.UserID, &uc.ChallengeID, &completed, &completedAt)
	if err != nil {
		return nil, err
	}

	uc.Completed = completed != 0
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		uc.CompletedAt = &t
	}
	return &uc, nil
}

const userChallengeCols = `id, user_id, challenge_id, completed, completed_at`

func getUserChallenge(q queryRower, userID, challengeID int64) (*model.UserChallenge, error) {
	row := q.QueryRow(
		`SELECT `+userChallengeCols+` FROM user_challenges WHERE user_id = ? AND challenge_id = ?`,
		userID, challengeID,
	)
	uc, err := scanUserChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user challenge: %w", err)
	}
	return uc, nil
}

func (s *UserChallengeStore) Get(userID, challengeID int64) (*model.UserChallenge, error) {
	return getUserChallenge(s.db, userID, challengeID)
}

// ListByUser returns all of the user's rows keyed by challenge id.
func (s *UserChallengeStore) ListByUser(userID int64) (map[int64]model.UserChallenge, error) {
	rows, err := s.db.Query(`SELECT `+userChallengeCols+` FROM user_challenges WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user challenges: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]model.UserChallenge)
	for rows.Next() {
		uc, err := scanUserChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user challenge: %w", err)
		}
		out[uc.ChallengeID] = *uc
	}
	return out, rows.Err()
}

// GetOrCreate returns the row for (user, challenge), inserting an
// uncompleted one when absent. A racing insert is treated as "already exists".
func (s *UserChallengeStore) GetOrCreate(userID, challengeID int64) (*model.UserChallenge, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO user_challenges (user_id, challenge_id) VALUES (?, ?) ON CONFLICT(user_id, challenge_id) DO NOTHING`,
		userID, challengeID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert user challenge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	created := n == 1

	if created {
		if err := recomputePoints(tx, userID); err != nil {
			return nil, false, err
		}
	}
	uc, err := getUserChallenge(tx, userID, challengeID)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return uc, created, nil
}

// SetCompletion upserts the row with the given state. completedAt is stored
// only when completed is true.
func (s *UserChallengeStore) SetCompletion(userID, challengeID int64, completed bool, completedAt time.Time) (*model.UserChallenge, error) {
	var at sql.NullTime
	if completed {
		at = sql.NullTime{Time: completedAt.UTC(), Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO user_challenges (user_id, challenge_id, completed, completed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, challenge_id) DO UPDATE SET
			completed = excluded.completed,
			completed_at = excluded.completed_at`,
		userID, challengeID, boolInt(completed), at,
	); err != nil {
		return nil, fmt.Errorf("upsert user challenge: %w", err)
	}
	if err := recomputePoints(tx, userID); err != nil {
		return nil, err
	}
	uc, err := getUserChallenge(tx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return uc, nil
}

// Reset clears completion on an existing row. It reports false when there
// was no row to reset.
func (s *UserChallengeStore) Reset(userID, challengeID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE user_challenges SET completed = 0, completed_at = NULL WHERE user_id = ? AND challenge_id = ?`,
		userID, challengeID,
	)
	if err != nil {
		return false, fmt.Errorf("reset user challenge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if err := recomputePoints(tx, userID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
