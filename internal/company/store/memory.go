package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"chainsight/internal/company/models"
)

var ErrNotFound = errors.New("company not found")

// Store persists onboarded companies.
type Store interface {
	Create(ctx context.Context, c models.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Company, error)
}

type InMemoryStore struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]models.Company
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{companies: make(map[uuid.UUID]models.Company)}
}

func (s *InMemoryStore) Create(_ context.Context, c models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return models.Company{}, ErrNotFound
	}
	return c, nil
}
