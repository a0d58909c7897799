package face

import "time"

// Enrollment is the one reference face stored per worker. It is immutable
// after creation; re-enrollment for an existing worker is rejected, never
// overwritten.
type Enrollment struct {
	WorkerID   string
	Embedding  Embedding
	EnrolledAt time.Time
}

// MatchResult is the outcome of comparing a probe face against one or many
// enrolled references.
type MatchResult struct {
	Matched  bool
	WorkerID string
	// Similarity is on a 0-100 scale and only set when a comparison actually
	// ran (nil when no face was detected in the probe).
	Similarity *float64
}
