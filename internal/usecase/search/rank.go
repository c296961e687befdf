package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/townstage/searchcore/internal/domain/search/result"
	"github.com/townstage/searchcore/internal/domain/search/score"
)

// Rerank scores every candidate against the query embedding and
// returns the pool sorted by combined score, descending. Ties break on
// ID so identical inputs always produce identical order. A nil
// queryVec skips the semantic signal entirely; a candidate without a
// stored embedding scores 0 on that axis. Mixing embedding dimensions
// is an integration bug and fails hard.
func Rerank(
	candidates []result.Candidate, queryVec []float32,
	weights score.Weights, now time.Time, debug bool,
) ([]result.Result, error) {
	scored := make([]result.Result, len(candidates))

	for i, c := range candidates {
		components := score.Components{
			FTSRank:           score.Normalize(c.FTSRank, 0, 1),
			TrigramSimilarity: score.Normalize(c.TrigramSimilarity, 0, 1),
			RecencyBoost:      score.RecencyBoost(c.StartDate, now),
		}

		if queryVec != nil {
			sim := 0.0
			if c.Embedding != nil {
				var err error
				sim, err = score.CosineSimilarity(queryVec, c.Embedding)
				if err != nil {
					return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
				}
			}
			components.EmbeddingSimilarity = &sim
		}

		scored[i] = result.FromCandidate(c, score.Combined(components, weights))
		if debug {
			comps := components
			scored[i].Components = &comps
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	return scored, nil
}
