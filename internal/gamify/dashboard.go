package gamify

import (
	"context"

	"github.com/dukerupert/ecotrack/internal/badge"
	"github.com/dukerupert/ecotrack/internal/footprint"
	"github.com/dukerupert/ecotrack/internal/model"
)

// Recent list sizes.
const (
	ListRecent      = 20
	DashboardRecent = 5
)

type ActivityList struct {
	footprint.Summary
	Recent []model.Activity `json:"recent"`
}

type Dashboard struct {
	footprint.Summary
	Recent []model.Activity  `json:"recent"`
	Points int               `json:"points"`
	Badges []model.UserBadge `json:"badges"`
}

// BadgeStatus is one badge's state on the status endpoint: its earned flag
// plus the counters its criterion is decided on.
type BadgeStatus map[string]any

type Status struct {
	Points int                    `json:"points"`
	Badges map[string]BadgeStatus `json:"badges"`
}

func head(activities []model.Activity, n int) []model.Activity {
	if len(activities) > n {
		activities = activities[:n]
	}
	if activities == nil {
		return []model.Activity{}
	}
	return activities
}

// Activities returns the per-category breakdown and the most recent entries.
func (s *Service) Activities(ctx context.Context, userID int64) (*ActivityList, error) {
	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &ActivityList{
		Summary: footprint.Summarize(history),
		Recent:  head(history, ListRecent),
	}, nil
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	points, err := s.Points(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badges.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []model.UserBadge{}
	}
	return &Dashboard{
		Summary: footprint.Summarize(history),
		Recent:  head(history, DashboardRecent),
		Points:  points,
		Badges:  badges,
	}, nil
}

// Status reports every badge as earned when either a badge row exists or the
// live criterion holds, so histories that predate badge rows still show.
func (s *Service) Status(ctx context.Context, userID int64) (*Status, error) {
	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	held, err := s.badges.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	points, err := s.Points(ctx, userID)
	if err != nil {
		return nil, err
	}

	persisted := make(map[string]bool, len(held))
	for _, b := range held {
		persisted[b.Key] = true
	}

	p := badge.Measure(history)
	out := make(map[string]BadgeStatus, len(badge.Rules))
	for _, r := range badge.Rules {
		st := BadgeStatus{
			"name":   r.Name,
			"earned": persisted[r.Key] || p.Meets(r.Key),
		}
		switch r.Key {
		case badge.EcoCommuter:
			st["bike_walk_trips"] = p.BikeWalkTrips
			st["bike_walk_km"] = p.BikeWalkKm
			st["max_daily_trips"] = p.MaxDailyTrips
			st["trips_required"] = badge.EcoCommuterTrips
			st["km_required"] = badge.EcoCommuterKm
		case badge.GreenEater:
			st["veg_meals"] = p.VegMeals
			st["required"] = badge.GreenEaterMeals
		case badge.RecyclingChampion:
			st["recycled_items"] = p.RecycledItems
			st["required"] = badge.RecyclingItems
		case badge.EnergySaver:
			st["renewable_uses"] = p.RenewableUses
			st["required"] = badge.EnergySaverUses
		case badge.CarbonNeutral:
			st["total_impact"] = p.TotalImpact.Round(2).InexactFloat64()
			st["max_impact"] = badge.CarbonNeutralMax.InexactFloat64()
		}
		out[r.Key] = st
	}
	return &Status{Points: points, Badges: out}, nil
}

func (s *Service) Timeseries(ctx context.Context, userID int64) (footprint.Series, error) {
	history, err := s.activities.ListByUser(userID)
	if err != nil {
		return footprint.Series{}, err
	}
	return footprint.Timeseries(history), nil
}
