package parser

import (
	"regexp"
	"time"

	"github.com/townstage/searchcore/internal/domain/search/filters"
)

const isoDate = "2006-01-02"

var (
	todayRe    = regexp.MustCompile(`\b(?:today|tonight)\b`)
	tomorrowRe = regexp.MustCompile(`\btomorrow\b`)
	weekendRe  = regexp.MustCompile(`\b(?:this\s+)?weekend\b`)
)

var weekdayVocab = []struct {
	re  *regexp.Regexp
	day time.Weekday
}{
	{wordRe("monday"), time.Monday},
	{wordRe("tuesday"), time.Tuesday},
	{wordRe("wednesday"), time.Wednesday},
	{wordRe("thursday"), time.Thursday},
	{wordRe("friday"), time.Friday},
	{wordRe("saturday"), time.Saturday},
	{wordRe("sunday"), time.Sunday},
}

// extractDate resolves relative date vocabulary against the reference
// time. A bare weekday name yields a single-day window: dateStart and
// dateEnd are both the next occurrence of that weekday on or after now.
func extractDate(q string, now time.Time, f *filters.Filters) {
	switch {
	case todayRe.MatchString(q):
		setDateSpan(f, now, now)
	case tomorrowRe.MatchString(q):
		d := now.AddDate(0, 0, 1)
		setDateSpan(f, d, d)
	case weekendRe.MatchString(q):
		start, end := weekendSpan(now)
		setDateSpan(f, start, end)
	default:
		for _, entry := range weekdayVocab {
			if entry.re.MatchString(q) {
				d := nextWeekday(now, entry.day)
				setDateSpan(f, d, d)
				return
			}
		}
	}
}

func setDateSpan(f *filters.Filters, start, end time.Time) {
	f.DateStart = filters.String(start.Format(isoDate))
	f.DateEnd = filters.String(end.Format(isoDate))
}

// weekendSpan returns the upcoming Saturday–Sunday span. On a Saturday
// the span starts today; on a Sunday only the remaining day is covered.
func weekendSpan(now time.Time) (time.Time, time.Time) {
	if now.Weekday() == time.Sunday {
		return now, now
	}
	sat := nextWeekday(now, time.Saturday)
	return sat, sat.AddDate(0, 0, 1)
}

// nextWeekday returns the next occurrence of day on or after now.
func nextWeekday(now time.Time, day time.Weekday) time.Time {
	delta := (int(day) - int(now.Weekday()) + 7) % 7
	return now.AddDate(0, 0, delta)
}
