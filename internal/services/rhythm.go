package services

import (
	"time"

	"github.com/plately/plately-backend/internal/types"
)

// IsPublicationDay reports whether date counts as a publication day under
// the given rhythm. Unknown or empty rhythms fail open (every day counts)
// so a misconfigured restaurant still gets its publication mission
// recommended.
func IsPublicationDay(rhythm string, date time.Time) bool {
	wd := date.UTC().Weekday()
	switch rhythm {
	case types.RhythmDaily:
		return true
	case types.RhythmFiveWeek:
		return wd >= time.Monday && wd <= time.Friday
	case types.RhythmThreeWeek:
		return wd == time.Monday || wd == time.Wednesday || wd == time.Friday
	case types.RhythmOnceWeek:
		return wd == time.Monday
	default:
		return true
	}
}

// WouldHaveMissionOn is IsPublicationDay under its forecasting name: both
// the daily assignment and future-day previews must share one definition.
func WouldHaveMissionOn(rhythm string, date time.Time) bool {
	return IsPublicationDay(rhythm, date)
}

// NextPublicationDays returns the next n publication days under rhythm,
// starting from (and including) the UTC day of from.
func NextPublicationDays(rhythm string, from time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	day := from.UTC().Truncate(24 * time.Hour)
	// Bounded scan: even once_week finds n Mondays within 7n days.
	for i := 0; len(out) < n && i < 7*n+7; i++ {
		if IsPublicationDay(rhythm, day) {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// utcDayWindow returns [start, end) covering the UTC calendar day of t.
func utcDayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// utcDate formats the UTC calendar day of t as "2006-01-02".
func utcDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
