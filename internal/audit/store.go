package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDecision(ctx context.Context, decisionID uuid.UUID) ([]Event, error)
}

// InMemoryStore keeps events per decision for tests and single-node runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[uuid.UUID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[uuid.UUID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.DecisionID] = append(s.events[event.DecisionID], event)
	return nil
}

func (s *InMemoryStore) ListByDecision(_ context.Context, decisionID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[decisionID]...), nil
}

// ChannelSink decouples event emission from persistence: Append enqueues for
// a Worker to drain, reads pass through to the store the worker writes.
// Recently emitted events may not be listable until the worker catches up.
type ChannelSink struct {
	inbox chan<- Event
	reads Store
}

func NewChannelSink(inbox chan<- Event, reads Store) *ChannelSink {
	return &ChannelSink{inbox: inbox, reads: reads}
}

func (s *ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelSink) ListByDecision(ctx context.Context, decisionID uuid.UUID) ([]Event, error) {
	return s.reads.ListByDecision(ctx, decisionID)
}
