package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"aforo/internal/area/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// InMemory stores areas in memory for tests and the demo environment.
type InMemory struct {
	mu     sync.RWMutex
	areas  map[models.AreaID]*models.Area
	keyIdx map[domain.AreaKey]models.AreaID
}

// NewInMemory creates an in-memory area store.
func NewInMemory() *InMemory {
	return &InMemory{
		areas:  make(map[models.AreaID]*models.Area),
		keyIdx: make(map[domain.AreaKey]models.AreaID),
	}
}

func (s *InMemory) Create(_ context.Context, a *models.Area) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.keyIdx[a.Clave]; taken {
		return fmt.Errorf("area key %q already taken: %w", a.Clave, sentinel.ErrConflict)
	}
	cp := *a
	s.areas[a.ID] = &cp
	s.keyIdx[a.Clave] = a.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, a *models.Area) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.areas[a.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := s.keyIdx[a.Clave]; taken && owner != a.ID {
		return fmt.Errorf("area key %q already taken: %w", a.Clave, sentinel.ErrConflict)
	}
	delete(s.keyIdx, existing.Clave)
	cp := *a
	s.areas[a.ID] = &cp
	s.keyIdx[a.Clave] = a.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, id models.AreaID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.areas[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.keyIdx, a.Clave)
	delete(s.areas, id)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id models.AreaID) (*models.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.areas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemory) FindByKey(_ context.Context, key domain.AreaKey) (*models.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.keyIdx[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.areas[id]
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Area, 0, len(s.areas))
	for _, a := range s.areas {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Clave < out[j].Clave
	})
	return out, nil
}
