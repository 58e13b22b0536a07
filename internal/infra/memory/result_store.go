package memory

import (
	"context"
	"sort"
	"sync"

	"training-assessment-service/internal/domain"
)

// ResultStore keeps submitted results in process memory.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string][]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string][]domain.Result)}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.UserID] = append(s.results[result.UserID], result)
	return nil
}

func (s *ResultStore) ListResults(_ context.Context, userID string) ([]domain.Result, error) {
	s.mu.RLock()
	out := make([]domain.Result, len(s.results[userID]))
	copy(out, s.results[userID])
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}
