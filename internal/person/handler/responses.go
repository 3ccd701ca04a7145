package handler

import (
	"time"

	"aforo/internal/person/models"
)

// PersonResponse is the wire form of a person record. Huella slots are the
// raw template ids; zero means the slot is empty.
type PersonResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Matricula string    `json:"matricula"`
	Huella1   int       `json:"huella1"`
	Huella2   int       `json:"huella2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPersonResponse(p *models.Person) PersonResponse {
	return PersonResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Matricula: p.Matricula,
		Huella1:   int(p.Huella1),
		Huella2:   int(p.Huella2),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PersonListResponse wraps the person collection.
type PersonListResponse struct {
	Persons []PersonResponse `json:"persons"`
}

func toPersonListResponse(list []*models.Person) PersonListResponse {
	out := PersonListResponse{Persons: make([]PersonResponse, 0, len(list))}
	for _, p := range list {
		out.Persons = append(out.Persons, toPersonResponse(p))
	}
	return out
}
