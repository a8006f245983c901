package memory

import (
	"context"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Store implements ports.ProgressStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Progress
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Progress),
	}
}

// Save keeps a deep copy so later caller mutations do not leak in.
func (s *Store) Save(ctx context.Context, profile string, progress *domain.Progress) error {
	copied := progress.Clone()
	copied.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[profile] = copied
	return nil
}

// Load returns a copy of the stored record.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.data[profile]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	return progress.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profile)
	return nil
}

// List returns the stored profiles.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]string, 0, len(s.data))
	for id := range s.data {
		profiles = append(profiles, id)
	}
	return profiles, nil
}
