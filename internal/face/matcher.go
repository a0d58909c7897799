package face

import (
	"context"
	"errors"
	"fmt"

	derrors "verident/pkg/domain-errors"
	"verident/pkg/sentinel"
)

// scanPageSize bounds corpus pages during one-to-many matching.
const scanPageSize = 100

// Matcher compares probe faces against enrolled references.
type Matcher struct {
	provider          Provider
	store             Store
	matchThreshold    float64
	distanceThreshold float64
}

func NewMatcher(provider Provider, store Store) *Matcher {
	return &Matcher{
		provider:          provider,
		store:             store,
		matchThreshold:    MatchThreshold,
		distanceThreshold: DefaultDistanceThreshold,
	}
}

// MatchOne compares the probe against the single stored reference for a
// worker. An absent reference is an error; an undetectable probe face is a
// negative result, consistent with verification being best-effort.
func (m *Matcher) MatchOne(ctx context.Context, probe []byte, workerID string) (MatchResult, error) {
	reference, err := m.store.FindByWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return MatchResult{}, derrors.New(derrors.CodeNotFound, "no enrolled reference for worker")
		}
		return MatchResult{}, derrors.Wrap(derrors.CodeUnavailable, "enrollment store unavailable", err)
	}

	embedding, err := m.probeEmbedding(ctx, probe)
	if err != nil {
		return MatchResult{}, err
	}
	if embedding == nil {
		return MatchResult{Matched: false}, nil
	}

	similarity := embedding.Similarity(reference.Embedding)
	result := MatchResult{
		Matched:    similarity >= m.matchThreshold,
		Similarity: &similarity,
	}
	if result.Matched {
		result.WorkerID = workerID
	}
	return result, nil
}

// MatchAny walks the enrolled corpus in store order and returns the first
// reference within the distance threshold. First-match, not best-match: a
// deliberate performance/simplicity tradeoff that relies on false positives
// being rare at this threshold.
func (m *Matcher) MatchAny(ctx context.Context, probe []byte) (MatchResult, error) {
	embedding, err := m.probeEmbedding(ctx, probe)
	if err != nil {
		return MatchResult{}, err
	}
	if embedding == nil {
		return MatchResult{Matched: false}, nil
	}

	cursor := ""
	for {
		page, next, err := m.store.Scan(ctx, cursor, scanPageSize)
		if err != nil {
			return MatchResult{}, derrors.Wrap(derrors.CodeUnavailable, "enrollment store unavailable", err)
		}
		for _, enrollment := range page {
			if embedding.Distance(enrollment.Embedding) <= m.distanceThreshold {
				similarity := embedding.Similarity(enrollment.Embedding)
				return MatchResult{
					Matched:    true,
					WorkerID:   enrollment.WorkerID,
					Similarity: &similarity,
				}, nil
			}
		}
		if next == "" {
			return MatchResult{Matched: false}, nil
		}
		cursor = next
	}
}

// probeEmbedding encodes the probe image and applies the first-detected-face
// policy. A nil embedding with nil error means no face was found.
func (m *Matcher) probeEmbedding(ctx context.Context, probe []byte) (Embedding, error) {
	embeddings, err := m.provider.DetectAndEncode(ctx, probe)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrDecode):
			return nil, derrors.Wrap(derrors.CodeBadRequest, "probe image could not be decoded", err)
		case errors.Is(err, sentinel.ErrUnavailable):
			return nil, derrors.Wrap(derrors.CodeUnavailable, "face service unavailable", err)
		default:
			return nil, fmt.Errorf("encode probe: %w", err)
		}
	}
	if len(embeddings) == 0 {
		return nil, nil
	}
	return embeddings[0], nil
}
