// Package result defines search candidate and result rows exchanged
// between the substrate repository, the ranking pipeline, and transport.
package result

import (
	"time"

	"github.com/townstage/searchcore/internal/domain/search/score"
)

// Candidate is a raw row from the search substrate: display fields plus
// the substrate-computed lexical signals and the stored embedding, if any.
type Candidate struct {
	ID                string
	Title             string
	Description       string
	Venue             string
	City              string
	Area              string
	Category          string
	Tags              []string
	StartDate         time.Time
	Price             int
	ImageURL          string
	FTSRank           float64
	TrigramSimilarity float64
	Embedding         []float32
}

// Result is a scored search hit. Components is populated only when the
// caller requested a debug score breakdown.
type Result struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	City        string            `json:"city,omitempty"`
	Area        string            `json:"area,omitempty"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	StartDate   time.Time         `json:"startDate"`
	Price       int               `json:"price"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Score       float64           `json:"score"`
	Components  *score.Components `json:"scoreComponents,omitempty"`
}

// FromCandidate copies the display fields of c into a Result with the
// given score. Components stays nil unless the caller attaches one.
func FromCandidate(c Candidate, combined float64) Result {
	return Result{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Venue:       c.Venue,
		City:        c.City,
		Area:        c.Area,
		Category:    c.Category,
		Tags:        c.Tags,
		StartDate:   c.StartDate,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		Score:       combined,
	}
}
