// Package face implements the biometric half of the verification pipeline:
// enrolling a single reference face per worker and matching probe faces
// against enrolled references.
package face

import (
	"context"
	"math"
)

// Thresholds for the two match modes. One-to-one matching uses a similarity
// score on a 0-100 scale; one-to-many matching uses the comparator's default
// Euclidean distance cutoff. The asymmetry is documented policy, not an
// accident: changing either changes the security posture.
const (
	// MatchThreshold is the minimum similarity for a one-to-one match.
	MatchThreshold = 80.0

	// DefaultDistanceThreshold is the maximum embedding distance for a
	// one-to-many match.
	DefaultDistanceThreshold = 0.6
)

// Embedding is a fixed-length numeric vector representing a detected face.
type Embedding []float64

// Distance returns the Euclidean distance to another embedding. Mismatched
// lengths compare as maximally distant.
func (e Embedding) Distance(other Embedding) float64 {
	if len(e) == 0 || len(e) != len(other) {
		return math.Inf(1)
	}
	var sum float64
	for i := range e {
		d := e[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Similarity maps the distance to another embedding onto a 0-100 scale, where
// 100 is an identical embedding.
func (e Embedding) Similarity(other Embedding) float64 {
	d := e.Distance(other)
	if math.IsInf(d, 1) {
		return 0
	}
	s := (1 - d) * 100
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return s
	}
}

// Provider is the narrow contract against the external face capability
// service: detect faces in an encoded image and return one embedding per
// detection, in detection order. An image with no faces yields an empty
// slice, not an error.
type Provider interface {
	DetectAndEncode(ctx context.Context, image []byte) ([]Embedding, error)
}
