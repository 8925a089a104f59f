package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"chainsight/internal/decision/models"
)

// InMemoryStore keeps decisions in a map for tests and single-node runs.
// The latest ingested version wins on read; older versions are retained so
// audits of superseded decisions keep working.
type InMemoryStore struct {
	mu        sync.RWMutex
	decisions map[uuid.UUID][]models.Decision
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{decisions: make(map[uuid.UUID][]models.Decision)}
}

func (s *InMemoryStore) Create(_ context.Context, d *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.decisions[d.ID] {
		if existing.Version == d.Version {
			return ErrDuplicate
		}
	}
	s.decisions[d.ID] = append(s.decisions[d.ID], *d)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.decisions[id]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Version > latest.Version {
			latest = v
		}
	}
	return &latest, nil
}

// FindVersion returns one specific ingested version.
func (s *InMemoryStore) FindVersion(_ context.Context, id uuid.UUID, version int) (*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.decisions[id] {
		if v.Version == version {
			out := v
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions), nil
}
