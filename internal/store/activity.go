package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

// ActivityStore is the activity ledger. Rows are created and deleted, never updated.
type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func scanActivity(scanner interface{ Scan(...any) error }) (*model.Activity, error) {
	var a model.Activity
	var subtype, date sql.NullString
	var distance, amount sql.NullFloat64
	var impact string

	err := scanner.Scan(&a.ID, &a.UserID, &a.Category, &subtype, &distance, &amount, &impact, &date, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if subtype.Valid {
		a.Subtype = &subtype.String
	}
	if distance.Valid {
		a.Distance = &distance.Float64
	}
	if amount.Valid {
		a.Amount = &amount.Float64
	}
	if date.Valid {
		a.Date = &date.String
	}
	a.Impact, err = decimal.NewFromString(impact)
	if err != nil {
		return nil, fmt.Errorf("parse impact %q: %w", impact, err)
	}
	return &a, nil
}

const activityCols = `id, user_id, category, subtype, distance, amount, impact, date, created_at`

// impactPlaces is the stored precision of Activity.Impact.
const impactPlaces = 2

func (s *ActivityStore) Create(userID int64, in model.NewActivity) (*model.Activity, error) {
	var subtype, date sql.NullString
	if in.Subtype != nil {
		subtype = sql.NullString{String: *in.Subtype, Valid: true}
	}
	if in.Date != nil {
		date = sql.NullString{String: *in.Date, Valid: true}
	}
	var distance, amount sql.NullFloat64
	if in.Distance != nil {
		distance = sql.NullFloat64{Float64: *in.Distance, Valid: true}
	}
	if in.Amount != nil {
		amount = sql.NullFloat64{Float64: *in.Amount, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO activities (user_id, category, subtype, distance, amount, impact, date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Category, subtype, distance, amount, in.Impact.StringFixed(impactPlaces), date,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ActivityStore) GetByID(id int64) (*model.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// GetForUser returns the activity only if it belongs to userID.
func (s *ActivityStore) GetForUser(userID, id int64) (*model.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity for user: %w", err)
	}
	return a, nil
}

// ListByUser returns the user's full history, most recent first.
func (s *ActivityStore) ListByUser(userID int64) ([]model.Activity, error) {
	return s.list(`SELECT `+activityCols+` FROM activities WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *ActivityStore) list(query string, args ...any) ([]model.Activity, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func (s *ActivityStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}
