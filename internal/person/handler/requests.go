package handler

import (
	dErrors "aforo/pkg/domain-errors"
	strutil "aforo/pkg/string"
)

// CreatePersonRequest is the payload for registering a person.
type CreatePersonRequest struct {
	Nombre    string `json:"nombre"`
	Matricula string `json:"matricula"`
}

func (r *CreatePersonRequest) Normalize() {
	strutil.TrimStrings(&r.Nombre, &r.Matricula)
}

func (r *CreatePersonRequest) Validate() error {
	if r.Nombre == "" {
		return dErrors.New(dErrors.CodeValidation, "nombre is required")
	}
	if r.Matricula == "" {
		return dErrors.New(dErrors.CodeValidation, "matricula is required")
	}
	return nil
}

// UpdatePersonRequest is the payload for editing a person's name and
// institutional identifier. Fingerprint slots are managed by the enrollment
// endpoint, not here.
type UpdatePersonRequest struct {
	Nombre    string `json:"nombre"`
	Matricula string `json:"matricula"`
}

func (r *UpdatePersonRequest) Normalize() {
	strutil.TrimStrings(&r.Nombre, &r.Matricula)
}

func (r *UpdatePersonRequest) Validate() error {
	if r.Nombre == "" {
		return dErrors.New(dErrors.CodeValidation, "nombre is required")
	}
	if r.Matricula == "" {
		return dErrors.New(dErrors.CodeValidation, "matricula is required")
	}
	return nil
}
