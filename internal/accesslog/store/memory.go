package store

import (
	"context"
	"sync"

	"aforo/internal/accesslog/models"
)

// InMemory is a slice-backed audit log for tests and single-node
// deployments without a database.
type InMemory struct {
	mu      sync.RWMutex
	entries []*models.Entry
	nextID  int64
}

// NewInMemory creates an empty in-memory audit log.
func NewInMemory() *InMemory {
	return &InMemory{nextID: 1}
}

func (s *InMemory) Append(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	cp.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, &cp)
	e.ID = cp.ID
	return nil
}

func (s *InMemory) List(_ context.Context, limit int) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]*models.Entry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}
