package badge

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

// Progress is the set of counters the badge criteria are decided on.
type Progress struct {
	Activities    int
	BikeWalkTrips int
	BikeWalkKm    float64
	MaxDailyTrips int
	VegMeals      int
	RecycledItems int
	RenewableUses int
	TotalImpact   decimal.Decimal
}

// Measure computes Progress over a full activity history.
func Measure(activities []model.Activity) Progress {
	p := Progress{TotalImpact: decimal.Zero}
	daily := make(map[string]int)

	for _, a := range activities {
		p.Activities++
		p.TotalImpact = p.TotalImpact.Add(a.Impact)

		switch {
		case IsBikeWalk(a):
			p.BikeWalkTrips++
			if a.Distance != nil {
				p.BikeWalkKm += *a.Distance
			}
			var date string
			if a.Date != nil {
				date = *a.Date
			}
			daily[date]++
			if daily[date] > p.MaxDailyTrips {
				p.MaxDailyTrips = daily[date]
			}
		case IsVegMeal(a):
			p.VegMeals++
		case IsRecycled(a):
			p.RecycledItems++
		case IsRenewable(a):
			p.RenewableUses++
		}
	}
	return p
}

// Meets reports whether the badge criterion for key currently holds.
func (p Progress) Meets(key string) bool {
	switch key {
	case EcoCommuter:
		return p.BikeWalkTrips >= EcoCommuterTrips || p.BikeWalkKm >= EcoCommuterKm
	case GreenEater:
		return p.VegMeals >= GreenEaterMeals
	case RecyclingChampion:
		return p.RecycledItems >= RecyclingItems
	case EnergySaver:
		return p.RenewableUses >= EnergySaverUses
	case CarbonNeutral:
		// An empty history sums to zero and qualifies.
		return p.TotalImpact.LessThanOrEqual(CarbonNeutralMax)
	}
	return false
}

// Earned returns every badge key whose criterion holds, in rule order.
func (p Progress) Earned() []string {
	var keys []string
	for _, r := range Rules {
		if p.Meets(r.Key) {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// Affected returns the badges whose criterion could have depended on a.
// Deleting any other activity can only leave those criteria unchanged or
// lower counts they never used, so only these need re-checking.
func Affected(a model.Activity) []string {
	var keys []string
	switch {
	case IsBikeWalk(a):
		keys = append(keys, EcoCommuter)
	case IsVegMeal(a):
		keys = append(keys, GreenEater)
	case IsRecycled(a):
		keys = append(keys, RecyclingChampion)
	case IsRenewable(a):
		keys = append(keys, EnergySaver)
	}
	// Removing a negative impact raises the total.
	if a.Impact.IsNegative() {
		keys = append(keys, CarbonNeutral)
	}
	return keys
}
