// Package store keeps onboarding entities in memory.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"kycflow/internal/onboarding/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/sentinel"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status models.Status
	Type   models.EntityType
}

func (f Filter) matches(e *models.Entity) bool {
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}

// InMemory is a mutex-guarded entity store. Callers never share pointers with
// the store: every read and write goes through a deep copy.
type InMemory struct {
	mu       sync.RWMutex
	entities map[id.EntityID]*models.Entity
}

func NewInMemory() *InMemory {
	return &InMemory{entities: make(map[id.EntityID]*models.Entity)}
}

// Create stores a new entity. An existing id is a conflict.
func (s *InMemory) Create(_ context.Context, e *models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[e.ID]; ok {
		return fmt.Errorf("entity %s: %w", e.ID, sentinel.ErrConflict)
	}
	s.entities[e.ID] = e.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, entityID id.EntityID) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return e.Clone(), nil
}

// List returns matching entities ordered by creation time, oldest first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]*models.Entity, error) {
	s.mu.RLock()
	out := make([]*models.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if filter.matches(e) {
			out = append(out, e.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Entity) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out, nil
}

// Execute runs validate and then mutate against a copy of the entity while
// holding the write lock. The copy replaces the stored entity only when
// validate succeeds, so a rejected operation leaves the store untouched.
func (s *InMemory) Execute(ctx context.Context, entityID id.EntityID, validate func(*models.Entity) error, mutate func(*models.Entity)) (*models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entities[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.entities[entityID] = working
	return working.Clone(), nil
}

func compareIDs(a, b id.EntityID) int {
	switch as, bs := a.String(), b.String(); {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
