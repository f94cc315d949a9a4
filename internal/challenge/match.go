// Package challenge decides which catalog challenges an activity or badge
// completes, and which three challenges a user sees on a given day.
package challenge

import (
	"strings"

	"github.com/dukerupert/ecotrack/internal/badge"
	"github.com/dukerupert/ecotrack/internal/model"
)

// MatchWindow is how many recent active challenges the matcher considers.
const MatchWindow = 50

var (
	transportWords = []string{"bike", "bicycle", "walk"}
	transportModes = []string{"bicycle", "bike", "walk"}
	dietWords      = []string{"vegetarian", "vegan", "meat", "fish"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Matches reports whether logging a completes challenge c. The first keyword
// family found in the title decides; titles with none of them fall back to
// plain token overlap with the activity's category and subtype.
func Matches(c model.Challenge, a model.Activity) bool {
	title := strings.ToLower(c.Title)
	category := strings.ToLower(a.Category)
	subtype := strings.ToLower(a.SubtypeOrEmpty())

	switch {
	case containsAny(title, transportWords):
		if category != model.CategoryTransportation {
			return false
		}
		for _, m := range transportModes {
			if subtype == m {
				return true
			}
		}
		return false

	case containsAny(title, dietWords):
		if category != model.CategoryDiet {
			return false
		}
		for _, w := range dietWords {
			if strings.Contains(title, w) && strings.Contains(subtype, w) {
				return true
			}
		}
		return false

	case strings.Contains(title, "renewable"):
		return category == model.CategoryEnergy && subtype == "renewable"
	}

	for _, tok := range strings.Fields(title) {
		if strings.Contains(subtype, tok) || strings.Contains(category, tok) {
			return true
		}
	}
	return false
}

// Matching filters challenges down to the ones a completes, keeping order.
func Matching(challenges []model.Challenge, a model.Activity) []model.Challenge {
	var out []model.Challenge
	for _, c := range challenges {
		if Matches(c, a) {
			out = append(out, c)
		}
	}
	return out
}

// ForBadge finds the challenge linked to a badge. A challenge whose key
// equals the badge key always wins; otherwise the first challenge whose
// title contains one of the badge's title tokens is used. challenges must be
// ordered by id. Returns nil when nothing links.
func ForBadge(challenges []model.Challenge, key string) *model.Challenge {
	for i := range challenges {
		if strings.EqualFold(challenges[i].KeyOrEmpty(), key) {
			return &challenges[i]
		}
	}

	tokens := badge.TitleTokens(key)
	for i := range challenges {
		if containsAny(strings.ToLower(challenges[i].Title), tokens) {
			return &challenges[i]
		}
	}
	return nil
}
