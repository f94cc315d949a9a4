package model

import "time"

type Challenge struct {
	ID          int64     `json:"id"`
	Key         *string   `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// KeyOrEmpty returns the machine key, or "" when the challenge has none.
func (c Challenge) KeyOrEmpty() string {
	if c.Key == nil {
		return ""
	}
	return *c.Key
}

// UserChallenge is a user's completion state for one challenge. Completed is
// only meaningful for the day CompletedAt falls in.
type UserChallenge struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ChallengeID int64      `json:"challenge_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// CompletedSince reports whether the row is completed at or after cutoff.
func (uc UserChallenge) CompletedSince(cutoff time.Time) bool {
	return uc.Completed && uc.CompletedAt != nil && !uc.CompletedAt.Before(cutoff)
}
