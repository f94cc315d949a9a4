// Package footprint aggregates activity impact for the dashboard views.
package footprint

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/ecotrack/internal/model"
)

// Summary is the per-category view shown on the dashboard and activity list.
// Every loggable category is present even when the user has none.
type Summary struct {
	Breakdown map[string]float64 `json:"breakdown"`
	Counts    map[string]int     `json:"counts"`
	Total     float64            `json:"total_footprint"`
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Summarize totals impact and counts per category over activities.
func Summarize(activities []model.Activity) Summary {
	sums := make(map[string]decimal.Decimal, len(model.Categories))
	counts := make(map[string]int, len(model.Categories))
	for _, c := range model.Categories {
		sums[c] = decimal.Zero
		counts[c] = 0
	}

	total := decimal.Zero
	for _, a := range activities {
		sums[a.Category] = sums[a.Category].Add(a.Impact)
		counts[a.Category]++
		total = total.Add(a.Impact)
	}

	breakdown := make(map[string]float64, len(sums))
	for c, v := range sums {
		breakdown[c] = round(v)
	}
	return Summary{Breakdown: breakdown, Counts: counts, Total: round(total)}
}

// Point is one bucket of a timeseries, keyed by the bucket's first day.
type Point struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

type Series struct {
	Daily   []Point `json:"daily"`
	Weekly  []Point `json:"weekly"`
	Monthly []Point `json:"monthly"`
	Yearly  []Point `json:"yearly"`
}

const dateLayout = "2006-01-02"

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Timeseries buckets impact by activity date. Activities without a date, or
// with one that does not parse, are left out.
func Timeseries(activities []model.Activity) Series {
	daily := map[string]decimal.Decimal{}
	weekly := map[string]decimal.Decimal{}
	monthly := map[string]decimal.Decimal{}
	yearly := map[string]decimal.Decimal{}

	add := func(m map[string]decimal.Decimal, key string, v decimal.Decimal) {
		if cur, ok := m[key]; ok {
			m[key] = cur.Add(v)
			return
		}
		m[key] = v
	}

	for _, a := range activities {
		if a.Date == nil {
			continue
		}
		d, err := time.Parse(dateLayout, *a.Date)
		if err != nil {
			continue
		}
		add(daily, d.Format(dateLayout), a.Impact)
		add(weekly, WeekStart(d).Format(dateLayout), a.Impact)
		add(monthly, time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout), a.Impact)
		add(yearly, time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout), a.Impact)
	}

	return Series{
		Daily:   points(daily),
		Weekly:  points(weekly),
		Monthly: points(monthly),
		Yearly:  points(yearly),
	}
}

// points flattens a bucket map into ascending order. ISO dates sort
// lexically.
func points(m map[string]decimal.Decimal) []Point {
	out := make([]Point, 0, len(m))
	for period, v := range m {
		out = append(out, Point{Period: period, Total: round(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
