package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/ecotrack/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, username, email, password_hash, created_at, updated_at`

func (s *UserStore) Create(username, email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	return s.getOne(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	return s.getOne(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
}

// GetByEmail matches case-insensitively; the column is declared NOCASE.
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	return s.getOne(`SELECT `+userCols+` FROM users WHERE email = ? ORDER BY id ASC LIMIT 1`, email)
}

func (s *UserStore) getOne(query string, arg any) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListIDs returns every user id, ascending.
func (s *UserStore) ListIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
