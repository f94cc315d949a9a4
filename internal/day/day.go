// Package day defines the fixed UTC+8 calendar day used for daily
// challenges: sampling seeds, completion cutoffs and badge-linked
// completions all agree on when "today" starts.
package day

import "time"

// Zone is the fixed UTC+8 zone. It has no DST, so a fixed offset is exact.
var Zone = time.FixedZone("UTC+8", 8*60*60)

// Start returns the most recent UTC+8 midnight at or before now, in UTC.
func Start(now time.Time) time.Time {
	local := now.In(Zone)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
	return midnight.UTC()
}

// Key formats now's UTC+8 calendar date as YYYY-MM-DD.
func Key(now time.Time) string {
	return now.In(Zone).Format(time.DateOnly)
}

// IsToday reports whether t falls on or after the current day's start.
func IsToday(t, now time.Time) bool {
	return !t.Before(Start(now))
}
