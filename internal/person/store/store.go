// Package store persists person records and the fingerprint secondary index.
package store

import (
	"context"

	"aforo/internal/person/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// ErrNotFound is returned when a person does not exist.
var ErrNotFound = sentinel.ErrNotFound

// Store is the persistence contract for person records. Implementations must
// keep the fingerprint index in step with slot writes: a template id maps to
// at most one person at any time.
type Store interface {
	// Create persists a new person. Fails with sentinel.ErrConflict if a
	// fingerprint on the record is already attached to someone else.
	Create(ctx context.Context, p *models.Person) error

	// Update overwrites nombre and matricula. Fingerprint slots are written
	// only through SetFingerprint.
	Update(ctx context.Context, p *models.Person) error

	// Delete removes the person and their index entries. Historical audit
	// entries are unaffected; they carry denormalized copies.
	Delete(ctx context.Context, id domain.PersonID) error

	FindByID(ctx context.Context, id domain.PersonID) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)

	// SetFingerprint writes a template id into a slot and updates the
	// fingerprint index in the same transaction. Fails with
	// sentinel.ErrSlotTaken if the slot is occupied and sentinel.ErrConflict
	// if the template id already belongs to another person.
	SetFingerprint(ctx context.Context, id domain.PersonID, slot models.Slot, fid domain.FingerprintID) error

	// FindByFingerprint resolves a presented template id to its owner via the
	// index. The unset sentinel never resolves.
	FindByFingerprint(ctx context.Context, fid domain.FingerprintID) (*models.Person, error)
}
