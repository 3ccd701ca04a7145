// Package models defines the audit log entities.
package models

import (
	"time"

	"aforo/pkg/domain"
)

// UnknownPersonRef is recorded in place of a person id when the presented
// fingerprint resolved to nobody.
const UnknownPersonRef = "N/A"

// Entry is one immutable audit record. Exactly one entry is written per
// validated access request, granted or denied. Name and matricula are
// denormalized copies so the history survives person deletion.
type Entry struct {
	ID        int64
	Timestamp time.Time
	PersonRef string
	Nombre    string
	Matricula string
	AreaKey   domain.AreaKey
	HuellaID  domain.FingerprintID
	Acceso    bool
}

// NewEntry builds an audit record for a resolved person.
func NewEntry(personID domain.PersonID, nombre, matricula string, areaKey domain.AreaKey, huellaID domain.FingerprintID, acceso bool) *Entry {
	return &Entry{
		Timestamp: time.Now().UTC(),
		PersonRef: personID.String(),
		Nombre:    nombre,
		Matricula: matricula,
		AreaKey:   areaKey,
		HuellaID:  huellaID,
		Acceso:    acceso,
	}
}

// NewUnknownEntry builds an audit record for an unrecognized fingerprint.
// Access is always denied for unknowns so Acceso is fixed false.
func NewUnknownEntry(nombre string, areaKey domain.AreaKey, huellaID domain.FingerprintID) *Entry {
	return &Entry{
		Timestamp: time.Now().UTC(),
		PersonRef: UnknownPersonRef,
		Nombre:    nombre,
		Matricula: "",
		AreaKey:   areaKey,
		HuellaID:  huellaID,
		Acceso:    false,
	}
}
