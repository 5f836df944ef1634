package utils

import "time"

// DayKey collapses a timestamp to its calendar day in UTC. Trades that
// settled on the same day share a key regardless of the time of day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
