// Package store provides permission persistence backends.
package store

import (
	"context"

	"aforo/internal/permission/models"
	"aforo/pkg/domain"
)

// Store persists permission records keyed by (person, area).
//
// Implementations return sentinel.ErrNotFound from Find when no record
// exists for the pair. Upsert overwrites any existing record for the
// same pair; revoking access writes Habilitado=false rather than
// deleting the record, so the audit of intent survives.
type Store interface {
	// Upsert writes the permission for its (person, area) pair,
	// replacing any prior record.
	Upsert(ctx context.Context, p *models.Permission) error

	// Find returns the permission for the pair, or sentinel.ErrNotFound.
	Find(ctx context.Context, personID domain.PersonID, areaKey domain.AreaKey) (*models.Permission, error)

	// ListByPerson returns every permission record held by the person.
	ListByPerson(ctx context.Context, personID domain.PersonID) ([]*models.Permission, error)

	// ListByArea returns every permission record referencing the area key.
	ListByArea(ctx context.Context, areaKey domain.AreaKey) ([]*models.Permission, error)

	// DeleteByPerson removes all records for the person, returning the count.
	DeleteByPerson(ctx context.Context, personID domain.PersonID) (int, error)

	// DeleteByAreaKey removes all records referencing the area key,
	// returning the count. Used when an area is deleted.
	DeleteByAreaKey(ctx context.Context, areaKey domain.AreaKey) (int, error)
}
