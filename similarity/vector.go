package similarity

import (
	"math"

	"github.com/poiesic/sourcetrace/core"
)

// Cosine returns the cosine similarity of a and b. The second result is
// false when the vectors differ in length or either has zero magnitude.
func Cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	// Can't compare against a zero vector
	if magA == 0 || magB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), true
}

// SemanticFromCosine maps a cosine in [-1, 1] onto [0, 1].
func SemanticFromCosine(cos float64) float64 {
	return core.Clamp01((cos + 1) / 2)
}
