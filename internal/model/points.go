package model

import "time"

// UserPoints caches the sum of points over a user's completed challenges.
type UserPoints struct {
	UserID      int64     `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	UpdatedAt   time.Time `json:"updated_at"`
}
