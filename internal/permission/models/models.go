// Package models defines the permission domain entities.
package models

import (
	"time"

	"aforo/pkg/domain"
)

// Permission grants or revokes a person's access to an area. The pair
// (PersonID, AreaKey) identifies the record; absence of a record means
// access is denied.
type Permission struct {
	PersonID   domain.PersonID
	AreaKey    domain.AreaKey
	Habilitado bool
	UpdatedAt  time.Time
}

// New builds a permission record for the given pair.
func New(personID domain.PersonID, areaKey domain.AreaKey, habilitado bool) *Permission {
	return &Permission{
		PersonID:   personID,
		AreaKey:    areaKey,
		Habilitado: habilitado,
		UpdatedAt:  time.Now().UTC(),
	}
}
