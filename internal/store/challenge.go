package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/ecotrack/internal/model"
)

// ChallengeStore holds the operator-seeded challenge catalog.
type ChallengeStore struct {
	db *sql.DB
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

func scanChallenge(scanner interface{ Scan(...any) error }) (*model.Challenge, error) {
	var c model.Challenge
	var key sql.NullString
	var active int

	err := scanner.Scan(&c.ID, &key, &c.Title, &c.Description, &c.Points, &active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if key.Valid {
		c.Key = &key.String
	}
	c.Active = active != 0
	return &c, nil
}

const challengeCols = `id, key, title, description, points, is_active, created_at`

func nullKey(key *string) sql.NullString {
	if key == nil || *key == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *key, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *ChallengeStore) Create(key *string, title, description string, points int, active bool) (*model.Challenge, error) {
	result, err := s.db.Exec(
		`INSERT INTO challenges (key, title, description, points, is_active) VALUES (?, ?, ?, ?, ?)`,
		nullKey(key), title, description, points, boolInt(active),
	)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChallengeStore) GetByID(id int64) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE id = ?`, id)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

// GetByKey matches the machine key case-insensitively.
func (s *ChallengeStore) GetByKey(key string) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE key = ? COLLATE NOCASE ORDER BY id ASC LIMIT 1`, key)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge by key: %w", err)
	}
	return c, nil
}

// GetByTitle matches the title exactly.
func (s *ChallengeStore) GetByTitle(title string) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE title = ? ORDER BY id ASC LIMIT 1`, title)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge by title: %w", err)
	}
	return c, nil
}

// List returns the whole catalog in id order.
func (s *ChallengeStore) List() ([]model.Challenge, error) {
	return s.list(`SELECT ` + challengeCols + ` FROM challenges ORDER BY id ASC`)
}

// ListActive returns active challenges in id order. The daily sampler
// shuffles this list, so the base order must be stable.
func (s *ChallengeStore) ListActive() ([]model.Challenge, error) {
	return s.list(`SELECT ` + challengeCols + ` FROM challenges WHERE is_active = 1 ORDER BY id ASC`)
}

// ListRecentActive returns at most limit active challenges, newest first.
func (s *ChallengeStore) ListRecentActive(limit int) ([]model.Challenge, error) {
	return s.list(`SELECT `+challengeCols+` FROM challenges WHERE is_active = 1 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (s *ChallengeStore) list(query string, args ...any) ([]model.Challenge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// Update rewrites a catalog entry. A points change is pushed into the
// cached totals of every user who has the challenge completed.
func (s *ChallengeStore) Update(id int64, key *string, title, description string, points int, active bool) (*model.Challenge, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE challenges SET key = ?, title = ?, description = ?, points = ?, is_active = ? WHERE id = ?`,
		nullKey(key), title, description, points, boolInt(active), id,
	); err != nil {
		return nil, fmt.Errorf("update challenge: %w", err)
	}

	if err := recomputeHolders(tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the challenge; user_challenges rows cascade and the
// affected users' totals are rebuilt.
func (s *ChallengeStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	users, err := holders(tx, id)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM challenges WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	for _, uid := range users {
		if err := recomputePoints(tx, uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func holders(tx *sql.Tx, challengeID int64) ([]int64, error) {
	rows, err := tx.Query(`SELECT DISTINCT user_id FROM user_challenges WHERE challenge_id = ?`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("list challenge holders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan holder: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func recomputeHolders(tx *sql.Tx, challengeID int64) error {
	users, err := holders(tx, challengeID)
	if err != nil {
		return err
	}
	for _, uid := range users {
		if err := recomputePoints(tx, uid); err != nil {
			return err
		}
	}
	return nil
}
