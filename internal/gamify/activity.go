package gamify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/ecotrack/internal/badge"
	"github.com/dukerupert/ecotrack/internal/challenge"
	"github.com/dukerupert/ecotrack/internal/day"
	"github.com/dukerupert/ecotrack/internal/model"
)

const dateLayout = "2006-01-02"

// CreateResult is what a caller learns from logging an activity.
type CreateResult struct {
	Activity            *model.Activity `json:"activity"`
	ChallengesCompleted []int64         `json:"challenges_completed"`
	BadgesAwarded       []string        `json:"badges_awarded"`
	Points              int             `json:"points"`
}

func normalize(in model.NewActivity) (model.NewActivity, error) {
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		return in, invalid("category is required")
	}
	if !model.IsCategory(in.Category) {
		return in, invalid(fmt.Sprintf("invalid category %q", in.Category))
	}
	if in.Subtype != nil {
		st := strings.TrimSpace(*in.Subtype)
		if st == "" {
			in.Subtype = nil
		} else {
			in.Subtype = &st
		}
	}
	if in.Date != nil {
		d := strings.TrimSpace(*in.Date)
		if d == "" {
			in.Date = nil
		} else if _, err := time.Parse(dateLayout, d); err != nil {
			return in, invalid("date must be YYYY-MM-DD")
		} else {
			in.Date = &d
		}
	}
	if in.Distance != nil && *in.Distance < 0 {
		return in, invalid("distance must not be negative")
	}
	if in.Amount != nil && *in.Amount < 0 {
		return in, invalid("amount must not be negative")
	}
	return in, nil
}

// CreateActivity records an activity, then awards any newly earned badges and
// completes matching challenges. Only the insert can fail the call.
func (s *Service) CreateActivity(ctx context.Context, userID int64, in model.NewActivity) (*CreateResult, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	a, err := s.activities.Create(userID, in)
	if err != nil {
		return nil, err
	}
	s.notify(userID, "activity", "created", a.ID, map[string]any{"category": a.Category})

	result := &CreateResult{
		Activity:            a,
		ChallengesCompleted: []int64{},
		BadgesAwarded:       []string{},
	}

	var awarded []string
	if s.bestEffort(ctx, "award badges", userID, func() error {
		var err error
		awarded, err = s.awardBadges(ctx, userID)
		return err
	}) && awarded != nil {
		result.BadgesAwarded = awarded
	}

	var completed []int64
	if s.bestEffort(ctx, "match challenges", userID, func() error {
		var err error
		completed, err = s.matchChallenges(userID, *a)
		return err
	}) && completed != nil {
		result.ChallengesCompleted = completed
	}

	s.bestEffort(ctx, "read points", userID, func() error {
		var err error
		result.Points, err = s.Points(ctx, userID)
		return err
	})

	return result, nil
}

// awardBadges re-evaluates every badge against the full history and records
// the ones not yet held. A badge already present is not an error.
func (s *Service) awardBadges(ctx context.Context, userID int64) ([]string, error) {
	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var awarded []string
	for _, key := range badge.Measure(history).Earned() {
		created, err := s.badges.Award(userID, key, now)
		if err != nil {
			return awarded, err
		}
		if !created {
			continue
		}
		awarded = append(awarded, key)
		s.logger.InfoContext(ctx, "badge awarded", "user_id", userID, "badge", key)
		s.notify(userID, "badge", "awarded", 0, map[string]any{"key": key})

		s.bestEffort(ctx, "link badge challenge", userID, func() error {
			return s.completeLinked(userID, key, now)
		})
	}
	return awarded, nil
}

// completeLinked marks the challenge linked to a badge as completed today.
func (s *Service) completeLinked(userID int64, key string, now time.Time) error {
	catalog, err := s.challenges.List()
	if err != nil {
		return err
	}
	c := challenge.ForBadge(catalog, key)
	if c == nil {
		return nil
	}

	uc, err := s.userChallenges.Get(userID, c.ID)
	if err != nil {
		return err
	}
	if uc != nil && uc.CompletedSince(day.Start(now)) {
		return nil
	}
	if _, err := s.userChallenges.SetCompletion(userID, c.ID, true, now); err != nil {
		return err
	}
	s.notify(userID, "challenge", "completed", c.ID, map[string]any{"badge": key})
	return nil
}

// matchChallenges completes every recent active challenge the activity
// satisfies, skipping ones already completed today.
func (s *Service) matchChallenges(userID int64, a model.Activity) ([]int64, error) {
	recent, err := s.challenges.ListRecentActive(challenge.MatchWindow)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := day.Start(now)
	var completed []int64
	for _, c := range challenge.Matching(recent, a) {
		uc, _, err := s.userChallenges.GetOrCreate(userID, c.ID)
		if err != nil {
			return nil, err
		}
		if uc.CompletedSince(cutoff) {
			continue
		}
		if _, err := s.userChallenges.SetCompletion(userID, c.ID, true, now); err != nil {
			return nil, err
		}
		completed = append(completed, c.ID)
		s.notify(userID, "challenge", "completed", c.ID, nil)
	}
	return completed, nil
}

// DeleteActivity removes one of the user's activities and revokes badges the
// remaining history no longer supports.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID int64) error {
	a, err := s.activities.GetForUser(userID, activityID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	if err := s.activities.Delete(a.ID); err != nil {
		return err
	}
	s.notify(userID, "activity", "deleted", a.ID, nil)

	s.bestEffort(ctx, "revoke badges", userID, func() error {
		return s.revokeBadges(ctx, userID, *a)
	})
	return nil
}

// revokeBadges re-checks only the criteria the deleted activity fed.
func (s *Service) revokeBadges(ctx context.Context, userID int64, deleted model.Activity) error {
	keys := badge.Affected(deleted)
	if len(keys) == 0 {
		return nil
	}

	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return err
	}
	progress := badge.Measure(history)

	var catalog []model.Challenge
	for _, key := range keys {
		if progress.Meets(key) {
			continue
		}
		revoked, err := s.badges.Revoke(userID, key)
		if err != nil {
			return err
		}
		if !revoked {
			continue
		}
		s.logger.InfoContext(ctx, "badge revoked", "user_id", userID, "badge", key)
		s.notify(userID, "badge", "revoked", 0, map[string]any{"key": key})

		if catalog == nil {
			if catalog, err = s.challenges.List(); err != nil {
				return err
			}
		}
		if c := challenge.ForBadge(catalog, key); c != nil {
			if _, err := s.userChallenges.Reset(userID, c.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
