// Package badge holds the fixed badge rule set and evaluates it against a
// user's activity history. Everything here is pure: counts and sums are
// recomputed from the full history on every call.
package badge

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

const (
	EcoCommuter       = "eco_commuter"
	GreenEater        = "green_eater"
	RecyclingChampion = "recycling_champion"
	EnergySaver       = "energy_saver"
	CarbonNeutral     = "carbon_neutral"
)

// Thresholds.
const (
	EcoCommuterTrips = 5
	EcoCommuterKm    = 50.0
	GreenEaterMeals  = 7
	RecyclingItems   = 5
	EnergySaverUses  = 5
)

// CarbonNeutralMax is the highest total impact, in kg CO2e, that still
// counts as carbon neutral.
var CarbonNeutralMax = decimal.RequireFromString("0.5")

// Rule describes one badge and the challenge-title tokens used to link it
// to a catalog challenge when no challenge carries its key.
type Rule struct {
	Key         string
	Name        string
	TitleTokens []string
}

// Rules is the badge table in evaluation order.
var Rules = []Rule{
	{Key: EcoCommuter, Name: "Eco Commuter", TitleTokens: []string{"eco commuter", "eco-commuter", "bike", "commuter"}},
	{Key: GreenEater, Name: "Green Eater", TitleTokens: []string{"green eater", "green-eater", "vegetarian", "vegan"}},
	{Key: RecyclingChampion, Name: "Recycling Champion", TitleTokens: []string{"recycling champion", "recycling-champion", "recycle", "recycling"}},
	{Key: EnergySaver, Name: "Energy Saver", TitleTokens: []string{"energy saver", "energy-saver", "renewable"}},
	{Key: CarbonNeutral, Name: "Carbon Neutral", TitleTokens: []string{"carbon neutral", "carbon-neutral", "carbon"}},
}

// Keys returns every badge key in evaluation order.
func Keys() []string {
	keys := make([]string, len(Rules))
	for i, r := range Rules {
		keys[i] = r.Key
	}
	return keys
}

// IsKey reports whether key names a badge.
func IsKey(key string) bool {
	_, ok := Lookup(key)
	return ok
}

func Lookup(key string) (Rule, bool) {
	for _, r := range Rules {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// TitleTokens returns the linkage tokens for key. Unknown keys fall back to
// the key with underscores turned into spaces.
func TitleTokens(key string) []string {
	if r, ok := Lookup(key); ok {
		return r.TitleTokens
	}
	return []string{strings.ReplaceAll(key, "_", " ")}
}

func isTransport(category string) bool {
	return category == model.CategoryTransportation || category == "transport"
}

// IsBikeWalk reports whether a counts toward eco_commuter.
func IsBikeWalk(a model.Activity) bool {
	if !isTransport(a.Category) {
		return false
	}
	s := a.SubtypeOrEmpty()
	return strings.EqualFold(s, "bicycle") || strings.EqualFold(s, "walk")
}

// IsVegMeal reports whether a counts toward green_eater.
func IsVegMeal(a model.Activity) bool {
	if a.Category != model.CategoryDiet {
		return false
	}
	s := a.SubtypeOrEmpty()
	return strings.EqualFold(s, "vegetarian") || strings.EqualFold(s, "vegan")
}

// IsRecycled reports whether a counts toward recycling_champion.
func IsRecycled(a model.Activity) bool {
	if a.Category != model.CategoryShopping {
		return false
	}
	s := strings.ToLower(a.SubtypeOrEmpty())
	return strings.Contains(s, "recycle") || strings.Contains(s, "reused") || strings.Contains(s, "upcycle")
}

// IsRenewable reports whether a counts toward energy_saver.
func IsRenewable(a model.Activity) bool {
	if a.Category != model.CategoryEnergy {
		return false
	}
	return strings.Contains(strings.ToLower(a.SubtypeOrEmpty()), "renew")
}
