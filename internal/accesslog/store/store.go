// Package store provides audit log persistence backends.
package store

import (
	"context"

	"aforo/internal/accesslog/models"
)

// DefaultListLimit bounds audit reads when the caller gives no limit.
const DefaultListLimit = 100

// Store is an append-only audit log. Entries are never updated or
// deleted; List returns the newest entries first.
type Store interface {
	Append(ctx context.Context, e *models.Entry) error
	List(ctx context.Context, limit int) ([]*models.Entry, error)
}
