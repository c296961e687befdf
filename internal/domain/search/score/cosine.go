package score

import (
	"fmt"
	"math"

	"github.com/townstage/searchcore/internal/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different lengths indicate mixed embedding models and
// fail hard with domain.ErrDimensionMismatch. A zero-magnitude vector
// yields exactly 0 rather than NaN.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
