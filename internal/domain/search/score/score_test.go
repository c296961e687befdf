package score

import (
	"math"
	"testing"
)

func TestWeightProfilesSumToOne(t *testing.T) {
	profiles := map[string]Weights{
		"default":       DefaultWeights,
		"no-embeddings": NoEmbeddingWeights,
	}
	for name, w := range profiles {
		t.Run(name, func(t *testing.T) {
			sum := w.FTSRank + w.TrigramSimilarity + w.RecencyBoost + w.EmbeddingSimilarity
			if math.Abs(sum-1.0) > 1e-5 {
				t.Errorf("weights sum to %f, want 1.0", sum)
			}
		})
	}

	if NoEmbeddingWeights.EmbeddingSimilarity != 0 {
		t.Errorf("no-embeddings profile must have zero embedding weight, got %f",
			NoEmbeddingWeights.EmbeddingSimilarity)
	}
}

func TestWeightsFor(t *testing.T) {
	if WeightsFor(true) != DefaultWeights {
		t.Error("expected default profile when embeddings are enabled")
	}
	if WeightsFor(false) != NoEmbeddingWeights {
		t.Error("expected no-embeddings profile when embeddings are disabled")
	}
}

func TestCombined(t *testing.T) {
	emb := 0.8
	c := Components{
		FTSRank:             0.9,
		TrigramSimilarity:   0.5,
		RecencyBoost:        1.0,
		EmbeddingSimilarity: &emb,
	}
	got := Combined(c, DefaultWeights)
	want := 0.4*0.9 + 0.25*0.5 + 0.2*1.0 + 0.15*0.8
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("combined score = %f, want %f", got, want)
	}
}

func TestCombined_MissingEmbeddingSimilarity(t *testing.T) {
	c := Components{FTSRank: 0.9, TrigramSimilarity: 0.5, RecencyBoost: 1.0}

	got := Combined(c, DefaultWeights)
	want := 0.4*0.9 + 0.25*0.5 + 0.2*1.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("combined score = %f, want %f (nil embedding treated as 0)", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name             string
		value, min, max  float64
		want             float64
	}{
		{"midpoint", 50, 0, 100, 0.5},
		{"at min", 0, 0, 100, 0},
		{"at max", 100, 0, 100, 1},
		{"below range clamps", -10, 0, 100, 0},
		{"above range clamps", 150, 0, 100, 1},
		{"degenerate range", 42, 7, 7, 0.5},
		{"negative range", -5, -10, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.value, tt.min, tt.max)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Normalize(%f,%f,%f) = %f, want %f",
					tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}
