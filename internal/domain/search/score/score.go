// Package score computes and combines relevance signals for search
// candidates: lexical rank, trigram similarity, recency, and optional
// embedding similarity.
package score

// Components holds the per-result relevance signals. FTSRank,
// TrigramSimilarity, and RecencyBoost are normalized to [0,1];
// EmbeddingSimilarity is a cosine in [-1,1] and nil when embeddings
// are disabled or unavailable for the result.
type Components struct {
	FTSRank             float64  `json:"ftsRank"`
	TrigramSimilarity   float64  `json:"trigramSimilarity"`
	RecencyBoost        float64  `json:"recencyBoost"`
	EmbeddingSimilarity *float64 `json:"embeddingSimilarity,omitempty"`
}

// Weights is a relevance weight profile. A profile's components sum to 1.0.
type Weights struct {
	FTSRank             float64
	TrigramSimilarity   float64
	RecencyBoost        float64
	EmbeddingSimilarity float64
}

// DefaultWeights is the profile used when embedding similarity is available.
var DefaultWeights = Weights{
	FTSRank:             0.4,
	TrigramSimilarity:   0.25,
	RecencyBoost:        0.2,
	EmbeddingSimilarity: 0.15,
}

// NoEmbeddingWeights is the profile used when embeddings are disabled;
// the embedding weight is forced to zero.
var NoEmbeddingWeights = Weights{
	FTSRank:             0.5,
	TrigramSimilarity:   0.3,
	RecencyBoost:        0.2,
	EmbeddingSimilarity: 0,
}

// WeightsFor selects the weight profile for a search depending on
// whether embedding similarity will contribute.
func WeightsFor(embeddingsEnabled bool) Weights {
	if embeddingsEnabled {
		return DefaultWeights
	}
	return NoEmbeddingWeights
}

// Combined returns the weighted sum of the components. A missing
// embedding similarity contributes zero rather than erroring.
func Combined(c Components, w Weights) float64 {
	var emb float64
	if c.EmbeddingSimilarity != nil {
		emb = *c.EmbeddingSimilarity
	}
	return w.FTSRank*c.FTSRank +
		w.TrigramSimilarity*c.TrigramSimilarity +
		w.RecencyBoost*c.RecencyBoost +
		w.EmbeddingSimilarity*emb
}

// Normalize linearly rescales value from [min,max] to [0,1], clamping
// at both ends. A degenerate range (min == max) yields 0.5.
func Normalize(value, min, max float64) float64 {
	if min == max {
		return 0.5
	}
	n := (value - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
