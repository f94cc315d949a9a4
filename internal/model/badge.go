package model

import "time"

type UserBadge struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Key      string    `json:"key"`
	EarnedAt time.Time `json:"earned_at"`
}
