package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"chainsight/internal/notification/models"
)

// InMemoryStore keeps preferences in a map. Used in tests and single-node
// deployments without Redis.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]models.Preferences
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[uuid.UUID]models.Preferences)}
}

func (s *InMemoryStore) Get(_ context.Context, companyID uuid.UUID) (models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.prefs[companyID]
	if !ok {
		return models.Preferences{}, ErrNotFound
	}
	return prefs, nil
}

func (s *InMemoryStore) Put(_ context.Context, prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.CompanyID] = prefs
	return nil
}
