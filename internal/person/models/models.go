// Package models defines the person aggregate: an enrolled individual with up
// to two fingerprint template slots.
package models

import (
	"time"

	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

// Slot identifies one of a person's two fingerprint slots.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// ParseSlot validates a slot number from the wire.
func ParseSlot(n int) (Slot, error) {
	switch n {
	case 1:
		return Slot1, nil
	case 2:
		return Slot2, nil
	default:
		return 0, dErrors.New(dErrors.CodeBadRequest, "fingerprint slot must be 1 or 2")
	}
}

// Person is an enrolled individual. Fingerprint slots start unset (zero) and
// are populated later by the enrollment flow.
type Person struct {
	ID        domain.PersonID
	Nombre    string
	Matricula string
	Huella1   domain.FingerprintID
	Huella2   domain.FingerprintID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPerson creates a person with empty fingerprint slots.
func NewPerson(id domain.PersonID, nombre, matricula string, now time.Time) (*Person, error) {
	if nombre == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nombre is required")
	}
	if matricula == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "matricula is required")
	}
	return &Person{
		ID:        id,
		Nombre:    nombre,
		Matricula: matricula,
		Huella1:   domain.FingerprintUnset,
		Huella2:   domain.FingerprintUnset,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Fingerprint returns the template id stored in the given slot.
func (p *Person) Fingerprint(slot Slot) domain.FingerprintID {
	if slot == Slot2 {
		return p.Huella2
	}
	return p.Huella1
}

// SetFingerprint writes a template id into the given slot. The slot must be
// empty; re-enrolling requires clearing the slot first.
func (p *Person) SetFingerprint(slot Slot, fid domain.FingerprintID, now time.Time) error {
	if !fid.IsSet() {
		return dErrors.New(dErrors.CodeValidation, "fingerprint id must be a positive template id")
	}
	if p.Fingerprint(slot).IsSet() {
		return dErrors.New(dErrors.CodeConflict, "fingerprint slot already occupied")
	}
	if slot == Slot2 {
		p.Huella2 = fid
	} else {
		p.Huella1 = fid
	}
	p.UpdatedAt = now
	return nil
}

// Matches reports whether either slot holds the presented template id.
// The unset sentinel never matches.
func (p *Person) Matches(fid domain.FingerprintID) bool {
	if !fid.IsSet() {
		return false
	}
	return p.Huella1 == fid || p.Huella2 == fid
}
