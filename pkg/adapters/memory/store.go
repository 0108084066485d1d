// Package memory provides an in-memory ResultStore.
package memory

import (
	"context"
	"sync"

	"github.com/arvel0/canopy/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Result
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Result),
	}
}

func copyResult(r *domain.Result) *domain.Result {
	copied := *r
	copied.Outputs = make(map[string]any, len(r.Outputs))
	for k, v := range r.Outputs {
		copied.Outputs[k] = v
	}
	return &copied
}

// Save persists the result in memory.
func (s *Store) Save(ctx context.Context, result *domain.Result) error {
	// Copy on write so the caller can't mutate stored state afterwards.
	copied := copyResult(result)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.InvocationID] = copied
	return nil
}

// Load retrieves the result from memory.
func (s *Store) Load(ctx context.Context, invocationID string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.data[invocationID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return copyResult(result), nil
}

// Delete removes the result.
func (s *Store) Delete(ctx context.Context, invocationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, invocationID)
	return nil
}

// List returns stored invocation IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
