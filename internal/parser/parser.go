// Package parser turns a free-text search query into structured filters.
// It is a composition of independent best-effort extractors over the
// same input: all of them may fire on one query, none of them ever
// errors, and unrecognized text simply yields fewer populated fields.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/townstage/searchcore/internal/domain/search/filters"
)

type extractor func(q string, now time.Time, f *filters.Filters)

var extractors = []extractor{
	extractCategory,
	extractLocality,
	extractPrice,
	extractDate,
	extractTimeWindow,
}

// Parse extracts structured filters from query. The reference time now
// anchors relative date vocabulary ("today", "friday"). Deterministic
// for identical (query, now) inputs.
func Parse(query string, now time.Time) filters.Filters {
	var f filters.Filters

	trimmed := strings.TrimSpace(query)
	if trimmed != "" {
		f.FreeTextQuery = &trimmed
	}

	q := strings.ToLower(trimmed)
	for _, extract := range extractors {
		extract(q, now, &f)
	}
	return f
}

func extractCategory(q string, _ time.Time, f *filters.Filters) {
	for _, entry := range categoryVocab {
		if entry.re.MatchString(q) {
			f.Category = filters.String(entry.category)
			return
		}
	}
}

func extractLocality(q string, _ time.Time, f *filters.Filters) {
	for _, entry := range localityVocab {
		if entry.re.MatchString(q) {
			f.Area = filters.String(entry.area)
			f.City = filters.String(entry.city)
			return
		}
	}
	for _, entry := range cityVocab {
		if entry.re.MatchString(q) {
			f.City = filters.String(entry.city)
			return
		}
	}
}

// Price vocabulary. Amounts are taken as written in the platform's base
// currency unit; no unit conversion is inferred.
var (
	priceRangeRe = regexp.MustCompile(`(?:₹|rs\.?\s*)?(\d+)\s*[-–]\s*(?:₹|rs\.?\s*)?(\d+)`)
	underPriceRe = regexp.MustCompile(`\b(?:under|below)\s*(?:₹|rs\.?\s*)?(\d+)`)
	abovePriceRe = regexp.MustCompile(`\b(?:above|over)\s*(?:₹|rs\.?\s*)?(\d+)`)
)

func extractPrice(q string, _ time.Time, f *filters.Filters) {
	if m := priceRangeRe.FindStringSubmatch(q); m != nil {
		if lo, err := strconv.Atoi(m[1]); err == nil {
			f.MinPrice = &lo
		}
		if hi, err := strconv.Atoi(m[2]); err == nil {
			f.MaxPrice = &hi
		}
	}
	if m := underPriceRe.FindStringSubmatch(q); m != nil {
		if hi, err := strconv.Atoi(m[1]); err == nil {
			f.MaxPrice = &hi
		}
	}
	if m := abovePriceRe.FindStringSubmatch(q); m != nil {
		if lo, err := strconv.Atoi(m[1]); err == nil {
			f.MinPrice = &lo
		}
	}
}

var timeWindowVocab = []struct {
	re     *regexp.Regexp
	window filters.TimeWindow
}{
	{wordRe("morning"), filters.Morning},
	{wordRe("afternoon"), filters.Afternoon},
	{wordRe("evening"), filters.Evening},
	// Whole-word match keeps "tonight" from firing the night window.
	{wordRe("night"), filters.Night},
}

func extractTimeWindow(q string, _ time.Time, f *filters.Filters) {
	for _, entry := range timeWindowVocab {
		if entry.re.MatchString(q) {
			f.StartTimeWindow = filters.Window(entry.window)
			return
		}
	}
}
