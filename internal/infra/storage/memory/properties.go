package memory

import (
	"context"
	"errors"
	"sync"

	"ratedesk/internal/domain/properties"
)

// ErrPropertyNotFound is returned when a property cannot be located in memory.
var ErrPropertyNotFound = errors.New("memory: property not found")

// PropertyStore is the in-memory catalog slice the engine resolves against.
type PropertyStore struct {
	mu    sync.RWMutex
	items map[properties.PropertyID]*properties.Property
	order []properties.PropertyID
}

func NewPropertyStore() *PropertyStore {
	return &PropertyStore{items: make(map[properties.PropertyID]*properties.Property)}
}

func (s *PropertyStore) ByID(ctx context.Context, id properties.PropertyID) (*properties.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	property, ok := s.items[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	clone := *property
	return &clone, nil
}

func (s *PropertyStore) List(ctx context.Context) ([]*properties.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*properties.Property, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.items[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *PropertyStore) Save(ctx context.Context, property *properties.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[property.ID]; !ok {
		s.order = append(s.order, property.ID)
	}
	clone := *property
	s.items[property.ID] = &clone
	return nil
}

var _ properties.Repository = (*PropertyStore)(nil)
