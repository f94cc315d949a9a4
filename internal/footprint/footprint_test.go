package footprint

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

func act(category, impact, date string) model.Activity {
	a := model.Activity{Category: category, Impact: decimal.RequireFromString(impact)}
	if date != "" {
		a.Date = &date
	}
	return a
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	for _, c := range model.Categories {
		if v, ok := s.Breakdown[c]; !ok || v != 0 {
			t.Errorf("Breakdown[%s] = %v, %v; want 0, true", c, v, ok)
		}
		if s.Counts[c] != 0 {
			t.Errorf("Counts[%s] = %d, want 0", c, s.Counts[c])
		}
	}
	if s.Total != 0 {
		t.Errorf("Total = %v, want 0", s.Total)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.Activity{
		act("transportation", "2.10", ""),
		act("transportation", "1.05", ""),
		act("diet", "0.50", ""),
		act("energy", "-0.25", ""),
	})
	if s.Breakdown["transportation"] != 3.15 {
		t.Errorf("transportation = %v, want 3.15", s.Breakdown["transportation"])
	}
	if s.Counts["transportation"] != 2 {
		t.Errorf("transportation count = %d, want 2", s.Counts["transportation"])
	}
	if s.Breakdown["energy"] != -0.25 {
		t.Errorf("energy = %v, want -0.25", s.Breakdown["energy"])
	}
	if s.Total != 3.4 {
		t.Errorf("Total = %v, want 3.4", s.Total)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2026-03-02", "2026-03-02"}, // Monday
		{"2026-03-08", "2026-03-02"}, // Sunday
		{"2026-03-04", "2026-03-02"},
		{"2026-01-01", "2025-12-29"},
	}
	for _, tt := range tests {
		d, _ := time.Parse(dateLayout, tt.day)
		if got := WeekStart(d).Format(dateLayout); got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestTimeseries(t *testing.T) {
	s := Timeseries([]model.Activity{
		act("diet", "1.00", "2026-03-08"),
		act("diet", "2.00", "2026-03-02"),
		act("diet", "0.50", "2026-03-02"),
		act("energy", "4.00", "2026-04-01"),
		act("energy", "9.00", ""),
		act("energy", "9.00", "not-a-date"),
	})

	if len(s.Daily) != 3 {
		t.Fatalf("len(Daily) = %d, want 3", len(s.Daily))
	}
	if s.Daily[0].Period != "2026-03-02" || s.Daily[0].Total != 2.5 {
		t.Errorf("Daily[0] = %+v, want {2026-03-02 2.5}", s.Daily[0])
	}

	if len(s.Weekly) != 2 || s.Weekly[0].Period != "2026-03-02" || s.Weekly[0].Total != 3.5 {
		t.Errorf("Weekly = %+v", s.Weekly)
	}
	if len(s.Monthly) != 2 || s.Monthly[1].Period != "2026-04-01" || s.Monthly[1].Total != 4 {
		t.Errorf("Monthly = %+v", s.Monthly)
	}
	if len(s.Yearly) != 1 || s.Yearly[0].Period != "2026-01-01" || s.Yearly[0].Total != 7.5 {
		t.Errorf("Yearly = %+v", s.Yearly)
	}
}
