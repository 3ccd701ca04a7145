package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"aforo/internal/person/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// InMemory stores persons in memory for tests and the demo environment.
type InMemory struct {
	mu      sync.RWMutex
	persons map[domain.PersonID]*models.Person
	// fingerprint template id -> owner. Mirrors the database index table.
	huellaIdx map[domain.FingerprintID]domain.PersonID
}

// NewInMemory creates an in-memory person store.
func NewInMemory() *InMemory {
	return &InMemory{
		persons:   make(map[domain.PersonID]*models.Person),
		huellaIdx: make(map[domain.FingerprintID]domain.PersonID),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.persons[p.ID]; exists {
		return fmt.Errorf("person %s: %w", p.ID, sentinel.ErrConflict)
	}
	for _, fid := range []domain.FingerprintID{p.Huella1, p.Huella2} {
		if !fid.IsSet() {
			continue
		}
		if owner, taken := s.huellaIdx[fid]; taken && owner != p.ID {
			return fmt.Errorf("fingerprint %s already enrolled: %w", fid, sentinel.ErrConflict)
		}
	}

	cp := *p
	s.persons[p.ID] = &cp
	if p.Huella1.IsSet() {
		s.huellaIdx[p.Huella1] = p.ID
	}
	if p.Huella2.IsSet() {
		s.huellaIdx[p.Huella2] = p.ID
	}
	return nil
}

func (s *InMemory) Update(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.persons[p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Nombre = p.Nombre
	existing.Matricula = p.Matricula
	existing.UpdatedAt = p.UpdatedAt
	return nil
}

func (s *InMemory) Delete(_ context.Context, id domain.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.persons[id]
	if !ok {
		return ErrNotFound
	}
	if p.Huella1.IsSet() {
		delete(s.huellaIdx, p.Huella1)
	}
	if p.Huella2.IsSet() {
		delete(s.huellaIdx, p.Huella2)
	}
	delete(s.persons, id)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.persons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Person, 0, len(s.persons))
	for _, p := range s.persons {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) SetFingerprint(_ context.Context, id domain.PersonID, slot models.Slot, fid domain.FingerprintID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.persons[id]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := s.huellaIdx[fid]; taken && owner != id {
		return fmt.Errorf("fingerprint %s already enrolled: %w", fid, sentinel.ErrConflict)
	}
	if p.Fingerprint(slot).IsSet() {
		return fmt.Errorf("slot %d: %w", slot, sentinel.ErrSlotTaken)
	}
	if err := p.SetFingerprint(slot, fid, time.Now()); err != nil {
		return err
	}
	s.huellaIdx[fid] = id
	return nil
}

func (s *InMemory) FindByFingerprint(_ context.Context, fid domain.FingerprintID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !fid.IsSet() {
		return nil, ErrNotFound
	}
	id, ok := s.huellaIdx[fid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.persons[id]
	return &cp, nil
}
