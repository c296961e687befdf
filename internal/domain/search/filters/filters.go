// Package filters defines the structured search filters extracted from
// natural-language queries or supplied explicitly by the caller.
package filters

import "strings"

// TimeWindow is a coarse time-of-day bucket for event start times.
type TimeWindow string

// Recognized time-of-day windows.
const (
	Morning   TimeWindow = "morning"
	Afternoon TimeWindow = "afternoon"
	Evening   TimeWindow = "evening"
	Night     TimeWindow = "night"
)

// Valid reports whether w is one of the recognized windows.
func (w TimeWindow) Valid() bool {
	switch w {
	case Morning, Afternoon, Evening, Night:
		return true
	}
	return false
}

// Filters is a partial set of structured search constraints.
// A nil field means the filter is unset; fields are never set to an
// empty string as a stand-in for "absent".
type Filters struct {
	Category        *string     `json:"category,omitempty"`
	DateStart       *string     `json:"dateStart,omitempty"` // ISO date, inclusive
	DateEnd         *string     `json:"dateEnd,omitempty"`   // ISO date, inclusive
	MinPrice        *int        `json:"minPrice,omitempty"`  // smallest currency unit
	MaxPrice        *int        `json:"maxPrice,omitempty"`
	Area            *string     `json:"area,omitempty"`
	City            *string     `json:"city,omitempty"`
	StartTimeWindow *TimeWindow `json:"startTimeWindow,omitempty"`
	FreeTextQuery   *string     `json:"freeTextQuery,omitempty"`
}

// Normalize returns a sanitized copy: category lowercased, negative
// price bounds dropped, free text trimmed and dropped entirely when it
// is empty after trimming. The receiver is not mutated.
func (f Filters) Normalize() Filters {
	out := f.clone()

	if out.Category != nil {
		c := strings.ToLower(*out.Category)
		out.Category = &c
	}
	if out.MinPrice != nil && *out.MinPrice < 0 {
		out.MinPrice = nil
	}
	if out.MaxPrice != nil && *out.MaxPrice < 0 {
		out.MaxPrice = nil
	}
	if out.FreeTextQuery != nil {
		q := strings.TrimSpace(*out.FreeTextQuery)
		if q == "" {
			out.FreeTextQuery = nil
		} else {
			out.FreeTextQuery = &q
		}
	}

	return out
}

// Merge combines filters parsed from free text with explicitly supplied
// ones. Every non-nil field in explicit wins; nil fields fall through
// to the parsed value. Neither argument is mutated.
func Merge(parsed, explicit Filters) Filters {
	out := parsed.clone()
	exp := explicit.clone()

	if exp.Category != nil {
		out.Category = exp.Category
	}
	if exp.DateStart != nil {
		out.DateStart = exp.DateStart
	}
	if exp.DateEnd != nil {
		out.DateEnd = exp.DateEnd
	}
	if exp.MinPrice != nil {
		out.MinPrice = exp.MinPrice
	}
	if exp.MaxPrice != nil {
		out.MaxPrice = exp.MaxPrice
	}
	if exp.Area != nil {
		out.Area = exp.Area
	}
	if exp.City != nil {
		out.City = exp.City
	}
	if exp.StartTimeWindow != nil {
		out.StartTimeWindow = exp.StartTimeWindow
	}
	if exp.FreeTextQuery != nil {
		out.FreeTextQuery = exp.FreeTextQuery
	}

	return out
}

// clone copies f with fresh pointers so callers can modify the copy freely.
func (f Filters) clone() Filters {
	return Filters{
		Category:        clonePtr(f.Category),
		DateStart:       clonePtr(f.DateStart),
		DateEnd:         clonePtr(f.DateEnd),
		MinPrice:        clonePtr(f.MinPrice),
		MaxPrice:        clonePtr(f.MaxPrice),
		Area:            clonePtr(f.Area),
		City:            clonePtr(f.City),
		StartTimeWindow: clonePtr(f.StartTimeWindow),
		FreeTextQuery:   clonePtr(f.FreeTextQuery),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// String returns a pointer to v. Convenience for building literals.
func String(v string) *string { return &v }

// Int returns a pointer to v. Convenience for building literals.
func Int(v int) *int { return &v }

// Window returns a pointer to w. Convenience for building literals.
func Window(w TimeWindow) *TimeWindow { return &w }
