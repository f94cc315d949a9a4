package badge

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

func act(category, subtype string, impact string) model.Activity {
	a := model.Activity{Category: category, Impact: decimal.RequireFromString(impact)}
	if subtype != "" {
		a.Subtype = &subtype
	}
	return a
}

func repeat(a model.Activity, n int) []model.Activity {
	out := make([]model.Activity, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func TestEcoCommuterByTrips(t *testing.T) {
	trips := repeat(act("transportation", "bicycle", "0"), 4)
	if Measure(trips).Meets(EcoCommuter) {
		t.Error("4 trips should not earn eco_commuter")
	}
	trips = append(trips, act("transportation", "Walk", "0"))
	p := Measure(trips)
	if p.BikeWalkTrips != 5 {
		t.Errorf("BikeWalkTrips = %d, want 5", p.BikeWalkTrips)
	}
	if !p.Meets(EcoCommuter) {
		t.Error("5 trips should earn eco_commuter")
	}
}

func TestEcoCommuterByDistance(t *testing.T) {
	a := act("transport", "walk", "0")
	d := 25.0
	a.Distance = &d
	p := Measure([]model.Activity{a, a})
	if p.BikeWalkKm != 50 {
		t.Errorf("BikeWalkKm = %v, want 50", p.BikeWalkKm)
	}
	if !p.Meets(EcoCommuter) {
		t.Error("50 km should earn eco_commuter")
	}
}

func TestCarDoesNotCount(t *testing.T) {
	p := Measure(repeat(act("transportation", "car", "2.5"), 10))
	if p.BikeWalkTrips != 0 {
		t.Errorf("BikeWalkTrips = %d, want 0", p.BikeWalkTrips)
	}
}

func TestMaxDailyTrips(t *testing.T) {
	mon, tue := "2026-01-05", "2026-01-06"
	a := act("transportation", "bicycle", "0")
	b := a
	a.Date = &mon
	b.Date = &tue
	p := Measure([]model.Activity{a, a, b, a})
	if p.MaxDailyTrips != 3 {
		t.Errorf("MaxDailyTrips = %d, want 3", p.MaxDailyTrips)
	}
}

func TestGreenEater(t *testing.T) {
	meals := append(repeat(act("diet", "vegan", "0.5"), 3), repeat(act("diet", "Vegetarian", "0.5"), 3)...)
	meals = append(meals, act("diet", "meat", "5"))
	if Measure(meals).Meets(GreenEater) {
		t.Error("6 veg meals should not earn green_eater")
	}
	meals = append(meals, act("diet", "vegan", "0.5"))
	if !Measure(meals).Meets(GreenEater) {
		t.Error("7 veg meals should earn green_eater")
	}
}

func TestRecyclingChampion(t *testing.T) {
	items := []model.Activity{
		act("shopping", "recycled_paper", "0"),
		act("shopping", "Reused bag", "0"),
		act("shopping", "upcycled", "0"),
		act("shopping", "recycle", "0"),
		act("shopping", "new", "0"),
	}
	if Measure(items).Meets(RecyclingChampion) {
		t.Error("4 recycled items should not earn recycling_champion")
	}
	items = append(items, act("shopping", "recycled", "0"))
	p := Measure(items)
	if p.RecycledItems != 5 {
		t.Errorf("RecycledItems = %d, want 5", p.RecycledItems)
	}
	if !p.Meets(RecyclingChampion) {
		t.Error("5 recycled items should earn recycling_champion")
	}
}

func TestEnergySaver(t *testing.T) {
	uses := repeat(act("energy", "Renewable", "0"), 5)
	if !Measure(uses).Meets(EnergySaver) {
		t.Error("5 renewable uses should earn energy_saver")
	}
	if Measure(repeat(act("energy", "grid", "0"), 5)).Meets(EnergySaver) {
		t.Error("grid usage should not earn energy_saver")
	}
}

func TestCarbonNeutral(t *testing.T) {
	tests := []struct {
		name    string
		impacts []string
		want    bool
	}{
		{"no activities", nil, true},
		{"at threshold", []string{"0.25", "0.25"}, true},
		{"over threshold", []string{"0.25", "0.26"}, false},
		{"offset by negative", []string{"3.00", "-2.60"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acts []model.Activity
			for _, i := range tt.impacts {
				acts = append(acts, act("energy", "grid", i))
			}
			if got := Measure(acts).Meets(CarbonNeutral); got != tt.want {
				t.Errorf("Meets(carbon_neutral) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEarnedOrder(t *testing.T) {
	acts := append(repeat(act("energy", "renewable", "0"), 5), repeat(act("transportation", "walk", "0"), 5)...)
	got := Measure(acts).Earned()
	want := []string{EcoCommuter, EnergySaver, CarbonNeutral}
	if !slices.Equal(got, want) {
		t.Errorf("Earned() = %v, want %v", got, want)
	}
}

func TestAffected(t *testing.T) {
	tests := []struct {
		name string
		a    model.Activity
		want []string
	}{
		{"bike", act("transportation", "bicycle", "0"), []string{EcoCommuter}},
		{"vegan", act("diet", "vegan", "0.4"), []string{GreenEater}},
		{"recycled", act("shopping", "recycled", "0"), []string{RecyclingChampion}},
		{"renewable offset", act("energy", "renewable", "-1.00"), []string{EnergySaver, CarbonNeutral}},
		{"car", act("transportation", "car", "4.2"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Affected(tt.a); !slices.Equal(got, tt.want) {
				t.Errorf("Affected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTitleTokens(t *testing.T) {
	if got := TitleTokens(EcoCommuter); !slices.Contains(got, "bike") {
		t.Errorf("TitleTokens(eco_commuter) = %v, want to contain bike", got)
	}
	if got := TitleTokens("night_owl"); !slices.Equal(got, []string{"night owl"}) {
		t.Errorf("TitleTokens(night_owl) = %v", got)
	}
	if IsKey("night_owl") {
		t.Error("IsKey(night_owl) = true")
	}
}
