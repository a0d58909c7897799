package face

import (
	"context"
	"sort"
	"sync"

	"verident/pkg/sentinel"
)

// InMemoryStore keeps the development and test setup lightweight. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu          sync.RWMutex
	enrollments map[string]Enrollment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{enrollments: make(map[string]Enrollment)}
}

func (s *InMemoryStore) InsertIfAbsent(_ context.Context, enrollment Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enrollments[enrollment.WorkerID]; ok {
		return sentinel.ErrConflict
	}
	s.enrollments[enrollment.WorkerID] = enrollment
	return nil
}

func (s *InMemoryStore) FindByWorker(_ context.Context, workerID string) (Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if enrollment, ok := s.enrollments[workerID]; ok {
		return enrollment, nil
	}
	return Enrollment{}, sentinel.ErrNotFound
}

// Scan pages in worker-ID order, which stands in for the "store-determined
// order" of the real document store.
func (s *InMemoryStore) Scan(_ context.Context, cursor string, limit int) ([]Enrollment, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.enrollments))
	for id := range s.enrollments {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	page := make([]Enrollment, 0, len(ids))
	for _, id := range ids {
		page = append(page, s.enrollments[id])
	}

	next := ""
	if limit > 0 && len(page) == limit {
		next = page[len(page)-1].WorkerID
	}
	return page, next, nil
}

func (s *InMemoryStore) Latest(_ context.Context) (Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest Enrollment
	found := false
	for _, e := range s.enrollments {
		if !found || e.EnrolledAt.After(latest.EnrolledAt) {
			latest = e
			found = true
		}
	}
	if !found {
		return Enrollment{}, sentinel.ErrNotFound
	}
	return latest, nil
}
