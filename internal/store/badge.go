package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/ecotrack/internal/model"
)

type BadgeStore struct {
	db *sql.DB
}

func NewBadgeStore(db *sql.DB) *BadgeStore {
	return &BadgeStore{db: db}
}

func scanBadge(scanner interface{ Scan(...any) error }) (*model.UserBadge, error) {
	var b model.UserBadge
	err := scanner.Scan(&b.ID, &b.UserID, &b.Key, &b.EarnedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const badgeCols = `id, user_id, key, earned_at`

// Award records the badge. created is false when the user already held it;
// a concurrent duplicate insert is absorbed by the (user_id, key) constraint.
func (s *BadgeStore) Award(userID int64, key string, earnedAt time.Time) (created bool, err error) {
	result, err := s.db.Exec(
		`INSERT INTO user_badges (user_id, key, earned_at) VALUES (?, ?, ?) ON CONFLICT(user_id, key) DO NOTHING`,
		userID, key, earnedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert badge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// ListByUser returns the user's badges, most recently earned first.
func (s *BadgeStore) ListByUser(userID int64) ([]model.UserBadge, error) {
	rows, err := s.db.Query(
		`SELECT `+badgeCols+` FROM user_badges WHERE user_id = ? ORDER BY earned_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []model.UserBadge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, *b)
	}
	return badges, rows.Err()
}

// Revoke deletes the badge and reports whether a row was removed.
func (s *BadgeStore) Revoke(userID int64, key string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM user_badges WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return false, fmt.Errorf("delete badge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
