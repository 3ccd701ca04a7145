// Package models defines the area aggregate: a named physical access zone.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

// AreaID uniquely identifies an area record. The canonical key, not the ID,
// is what permissions join on; the ID exists so an area can be renamed.
type AreaID uuid.UUID

// NewAreaID generates a fresh area identifier.
func NewAreaID() AreaID {
	return AreaID(uuid.New())
}

// ParseAreaID parses an area ID from its string form.
func ParseAreaID(s string) (AreaID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AreaID{}, fmt.Errorf("parse area id: %w", err)
	}
	return AreaID(u), nil
}

func (id AreaID) String() string {
	return uuid.UUID(id).String()
}

// Area is a named physical access zone. Clave is the canonical key derived
// from Nombre and is what the permission system joins on.
type Area struct {
	ID        AreaID
	Nombre    string
	Clave     domain.AreaKey
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewArea creates an area, deriving its canonical key from the display name.
func NewArea(id AreaID, nombre string, now time.Time) (*Area, error) {
	clave := domain.NormalizeAreaKey(nombre)
	if clave.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "area name is required")
	}
	return &Area{
		ID:        id,
		Nombre:    nombre,
		Clave:     clave,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename updates the display name and re-derives the canonical key.
func (a *Area) Rename(nombre string, now time.Time) error {
	clave := domain.NormalizeAreaKey(nombre)
	if clave.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "area name is required")
	}
	a.Nombre = nombre
	a.Clave = clave
	a.UpdatedAt = now
	return nil
}
