package score

import (
	"math"
	"time"
)

// RecencyBoost scores an event date against a reference date at day
// granularity: exactly 1.0 for today, linear decay to 0.5 at 14 days
// out and to 0.3 at 30 days, then a slower decay floored at 0.1.
// Past events decay exponentially toward zero.
//
// The SQL expression produced by repository/search.RecencyBoostSQL
// must stay in lockstep with this function, including the boundary
// days 0, 14, and 30.
func RecencyBoost(eventDate, reference time.Time) float64 {
	days := daysUntil(reference, eventDate)

	switch {
	case days < 0:
		return math.Max(0, math.Exp(float64(days)/7)*0.3)
	case days == 0:
		return 1.0
	case days <= 14:
		return 1.0 - (float64(days)/14)*0.5
	case days <= 30:
		return 0.5 - (float64(days-14)/16)*0.2
	default:
		return math.Max(0.1, 0.3-(float64(days-30)/60)*0.2)
	}
}

// daysUntil returns the whole-day difference to - from, with both
// dates truncated to midnight first.
func daysUntil(from, to time.Time) int {
	f := truncateToDay(from)
	t := truncateToDay(to)
	return int(math.Round(t.Sub(f).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
