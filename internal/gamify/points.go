package gamify

import (
	"context"

	"github.com/dukerupert/ecotrack/internal/challenge"
)

// Points returns the displayed total: the cached ledger plus the points of
// challenges linked to held badges that were never completed. The addition
// is not persisted.
func (s *Service) Points(ctx context.Context, userID int64) (int, error) {
	cached, err := s.points.GetOrRecompute(userID)
	if err != nil {
		return 0, err
	}

	var extra int
	s.bestEffort(ctx, "reconcile legacy badges", userID, func() error {
		var err error
		extra, err = s.legacyBadgePoints(userID)
		return err
	})
	return cached.TotalPoints + extra, nil
}

// legacyBadgePoints sums the points of challenges linked to held badges
// that have no completed row. Each challenge counts once even when several
// badges link to it.
func (s *Service) legacyBadgePoints(userID int64) (int, error) {
	held, err := s.badges.ListByUser(userID)
	if err != nil {
		return 0, err
	}
	if len(held) == 0 {
		return 0, nil
	}
	catalog, err := s.challenges.List()
	if err != nil {
		return 0, err
	}
	rows, err := s.userChallenges.ListByUser(userID)
	if err != nil {
		return 0, err
	}

	seen := make(map[int64]bool)
	extra := 0
	for _, b := range held {
		c := challenge.ForBadge(catalog, b.Key)
		if c == nil || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if uc, ok := rows[c.ID]; ok && uc.Completed {
			continue
		}
		extra += c.Points
	}
	return extra, nil
}
