package store

import (
	"context"
	"sort"
	"sync"

	"aforo/internal/permission/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

type pairKey struct {
	person domain.PersonID
	area   domain.AreaKey
}

// InMemory is a map-backed permission store for tests and single-node
// deployments without a database.
type InMemory struct {
	mu    sync.RWMutex
	perms map[pairKey]*models.Permission
}

// NewInMemory creates an empty in-memory permission store.
func NewInMemory() *InMemory {
	return &InMemory{perms: make(map[pairKey]*models.Permission)}
}

func (s *InMemory) Upsert(_ context.Context, p *models.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.perms[pairKey{person: p.PersonID, area: p.AreaKey}] = &cp
	return nil
}

func (s *InMemory) Find(_ context.Context, personID domain.PersonID, areaKey domain.AreaKey) (*models.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.perms[pairKey{person: personID, area: areaKey}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) ListByPerson(_ context.Context, personID domain.PersonID) ([]*models.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Permission
	for k, p := range s.perms {
		if k.person == personID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByArea(out)
	return out, nil
}

func (s *InMemory) ListByArea(_ context.Context, areaKey domain.AreaKey) ([]*models.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Permission
	for k, p := range s.perms {
		if k.area == areaKey {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PersonID.String() < out[j].PersonID.String()
	})
	return out, nil
}

func (s *InMemory) DeleteByPerson(_ context.Context, personID domain.PersonID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.perms {
		if k.person == personID {
			delete(s.perms, k)
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteByAreaKey(_ context.Context, areaKey domain.AreaKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.perms {
		if k.area == areaKey {
			delete(s.perms, k)
			n++
		}
	}
	return n, nil
}

func sortByArea(perms []*models.Permission) {
	sort.Slice(perms, func(i, j int) bool {
		return perms[i].AreaKey < perms[j].AreaKey
	})
}
