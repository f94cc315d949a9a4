package gamify

import (
	"context"
	"time"

	"github.com/dukerupert/ecotrack/internal/challenge"
	"github.com/dukerupert/ecotrack/internal/day"
	"github.com/dukerupert/ecotrack/internal/model"
)

// DailyChallenge is a sampled challenge with the caller's completion state
// for the current day.
type DailyChallenge struct {
	model.Challenge
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DailyChallenges returns the user's sampled challenges for today. A
// completion from an earlier day shows as not completed; stored rows are left
// untouched.
func (s *Service) DailyChallenges(ctx context.Context, userID int64) ([]DailyChallenge, error) {
	active, err := s.challenges.ListActive()
	if err != nil {
		return nil, err
	}
	rows, err := s.userChallenges.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := day.Start(now)
	picked := challenge.Daily(active, userID, now)

	out := make([]DailyChallenge, len(picked))
	for i, c := range picked {
		out[i] = DailyChallenge{Challenge: c}
		if uc, ok := rows[c.ID]; ok && uc.CompletedSince(cutoff) {
			out[i].Completed = true
			out[i].CompletedAt = uc.CompletedAt
		}
	}
	return out, nil
}

// Toggle sets the user's completion flag for an active challenge directly,
// outside any day-boundary logic. Completing stamps the current time; clearing
// removes the stamp.
func (s *Service) Toggle(ctx context.Context, userID, challengeID int64, completed bool) (*model.UserChallenge, error) {
	c, err := s.challenges.GetByID(challengeID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Active {
		return nil, ErrNotFound
	}

	uc, err := s.userChallenges.SetCompletion(userID, c.ID, completed, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "challenge toggled", "user_id", userID, "challenge_id", c.ID, "completed", completed)
	s.notify(userID, "challenge", "toggled", c.ID, map[string]any{"completed": completed})
	return uc, nil
}
