// Package store persists area records keyed by their canonical area key.
package store

import (
	"context"

	"aforo/internal/area/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// ErrNotFound is returned when an area does not exist.
var ErrNotFound = sentinel.ErrNotFound

// Store is the persistence contract for areas. Implementations must enforce
// canonical-key uniqueness: two areas whose names normalize to the same key
// would be indistinguishable to the permission system.
type Store interface {
	// Create persists a new area. Fails with sentinel.ErrConflict when the
	// canonical key is already taken.
	Create(ctx context.Context, a *models.Area) error

	// Update overwrites the area, including a possibly re-derived key.
	// Fails with sentinel.ErrConflict when the new key collides with a
	// different area.
	Update(ctx context.Context, a *models.Area) error

	Delete(ctx context.Context, id models.AreaID) error
	FindByID(ctx context.Context, id models.AreaID) (*models.Area, error)
	FindByKey(ctx context.Context, key domain.AreaKey) (*models.Area, error)
	List(ctx context.Context) ([]*models.Area, error)
}
