package memory

import (
	"context"
	"sync"

	"quiz-api-service/internal/domain"
)

// ResultStore is an append-only, in-memory implementation of app.ResultRepository.
type ResultStore struct {
	mu      sync.Mutex
	results []domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Insert(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
