package memory

import (
	"context"
	"sync"

	id "kycflow/pkg/domain"
	audit "kycflow/pkg/platform/audit"
)

// InMemoryStore keeps events per entity in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.EntityID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.EntityID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.EntityID] = append(s.events[event.EntityID], event)
	return nil
}

// ListByEntity returns an entity's events oldest first.
func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[entityID]...), nil
}
