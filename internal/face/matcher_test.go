package face

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "verident/pkg/domain-errors"
	"verident/pkg/sentinel"
)

func enrolledStore(t *testing.T, enrollments ...Enrollment) *InMemoryStore {
	t.Helper()
	store := NewInMemoryStore()
	for _, e := range enrollments {
		require.NoError(t, store.InsertIfAbsent(context.Background(), e))
	}
	return store
}

func TestMatchOne(t *testing.T) {
	ctx := context.Background()
	probe := []byte("probe")
	reference := Embedding{0.1, 0.2, 0.3}

	t.Run("identical face matches", func(t *testing.T) {
		provider := &stubProvider{embeddings: []Embedding{reference}}
		store := enrolledStore(t, Enrollment{WorkerID: "w1", Embedding: reference})
		m := NewMatcher(provider, store)

		result, err := m.MatchOne(ctx, probe, "w1")
		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, "w1", result.WorkerID)
		require.NotNil(t, result.Similarity)
		assert.InDelta(t, 100, *result.Similarity, 1e-9)
	})

	t.Run("dissimilar face does not match", func(t *testing.T) {
		provider := &stubProvider{embeddings: []Embedding{{0.9, 0.9, 0.9}}}
		store := enrolledStore(t, Enrollment{WorkerID: "w1", Embedding: reference})
		m := NewMatcher(provider, store)

		result, err := m.MatchOne(ctx, probe, "w1")
		require.NoError(t, err)
		assert.False(t, result.Matched)
		assert.Empty(t, result.WorkerID)
		require.NotNil(t, result.Similarity)
		assert.Less(t, *result.Similarity, MatchThreshold)
	})

	t.Run("unknown worker is an error", func(t *testing.T) {
		m := NewMatcher(&stubProvider{}, NewInMemoryStore())
		_, err := m.MatchOne(ctx, probe, "ghost")
		assert.True(t, derrors.Is(err, derrors.CodeNotFound))
	})

	t.Run("no face in probe is a negative result", func(t *testing.T) {
		provider := &stubProvider{}
		store := enrolledStore(t, Enrollment{WorkerID: "w1", Embedding: reference})
		m := NewMatcher(provider, store)

		result, err := m.MatchOne(ctx, probe, "w1")
		require.NoError(t, err)
		assert.False(t, result.Matched)
		assert.Nil(t, result.Similarity)
	})
}

func TestMatchAny(t *testing.T) {
	ctx := context.Background()
	probe := []byte("probe")

	t.Run("close embedding matches", func(t *testing.T) {
		provider := &stubProvider{embeddings: []Embedding{{0.1, 0.1}}}
		store := enrolledStore(t,
			Enrollment{WorkerID: "far", Embedding: Embedding{5, 5}},
			Enrollment{WorkerID: "near", Embedding: Embedding{0.1, 0.15}},
		)
		m := NewMatcher(provider, store)

		result, err := m.MatchAny(ctx, probe)
		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, "near", result.WorkerID)
		require.NotNil(t, result.Similarity)
	})

	t.Run("empty corpus is a negative result", func(t *testing.T) {
		provider := &stubProvider{embeddings: []Embedding{{0.1}}}
		m := NewMatcher(provider, NewInMemoryStore())

		result, err := m.MatchAny(ctx, probe)
		require.NoError(t, err)
		assert.False(t, result.Matched)
	})

	t.Run("all references beyond threshold", func(t *testing.T) {
		provider := &stubProvider{embeddings: []Embedding{{0, 0}}}
		store := enrolledStore(t, Enrollment{WorkerID: "w1", Embedding: Embedding{3, 4}})
		m := NewMatcher(provider, store)

		result, err := m.MatchAny(ctx, probe)
		require.NoError(t, err)
		assert.False(t, result.Matched)
	})

	t.Run("no face in probe skips the corpus scan", func(t *testing.T) {
		provider := &stubProvider{}
		store := enrolledStore(t, Enrollment{WorkerID: "w1", Embedding: Embedding{0.1}})
		m := NewMatcher(provider, store)

		result, err := m.MatchAny(ctx, probe)
		require.NoError(t, err)
		assert.False(t, result.Matched)
	})

	t.Run("first match in scan order wins", func(t *testing.T) {
		probe2 := Embedding{0, 0}
		provider := &stubProvider{embeddings: []Embedding{probe2}}
		store := enrolledStore(t,
			Enrollment{WorkerID: "a", Embedding: Embedding{0.5, 0}},
			Enrollment{WorkerID: "b", Embedding: Embedding{0, 0}},
		)
		m := NewMatcher(provider, store)

		result, err := m.MatchAny(ctx, probe)
		require.NoError(t, err)
		require.True(t, result.Matched)
		// "a" is within threshold and scans before the exact match "b".
		assert.Equal(t, "a", result.WorkerID)
	})

	t.Run("face service down", func(t *testing.T) {
		provider := &stubProvider{err: sentinel.ErrUnavailable}
		m := NewMatcher(provider, NewInMemoryStore())
		_, err := m.MatchAny(ctx, probe)
		assert.True(t, derrors.Is(err, derrors.CodeUnavailable))
	})
}
