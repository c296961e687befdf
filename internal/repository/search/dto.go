package search

import (
	"time"

	"github.com/lib/pq"

	"github.com/townstage/searchcore/internal/domain/search/result"
)

// candidateRow maps one substrate row. Nullable text columns are
// COALESCEd in the query, so plain strings suffice here.
type candidateRow struct {
	ID                string          `db:"id"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	Venue             string          `db:"venue"`
	City              string          `db:"city"`
	Area              string          `db:"area"`
	Category          string          `db:"category"`
	Tags              pq.StringArray  `db:"tags"`
	StartDate         time.Time       `db:"start_date"`
	Price             int             `db:"price"`
	ImageURL          string          `db:"image_url"`
	FTSRank           float64         `db:"fts_rank"`
	TrigramSimilarity float64         `db:"trigram_similarity"`
	Embedding         pq.Float32Array `db:"embedding"`
}

func (r candidateRow) toCandidate() result.Candidate {
	return result.Candidate{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Venue:             r.Venue,
		City:              r.City,
		Area:              r.Area,
		Category:          r.Category,
		Tags:              r.Tags,
		StartDate:         r.StartDate,
		Price:             r.Price,
		ImageURL:          r.ImageURL,
		FTSRank:           r.FTSRank,
		TrigramSimilarity: r.TrigramSimilarity,
		Embedding:         r.Embedding,
	}
}
