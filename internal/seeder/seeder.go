// Package seeder populates the stores with demo data for development
// runs without a database.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	areamodels "aforo/internal/area/models"
	permmodels "aforo/internal/permission/models"
	personmodels "aforo/internal/person/models"
	"aforo/pkg/domain"
)

// PersonStore defines methods for seeding persons.
type PersonStore interface {
	Create(ctx context.Context, p *personmodels.Person) error
	SetFingerprint(ctx context.Context, id domain.PersonID, slot personmodels.Slot, fid domain.FingerprintID) error
}

// AreaStore defines methods for seeding areas.
type AreaStore interface {
	Create(ctx context.Context, a *areamodels.Area) error
}

// PermissionStore defines methods for seeding permissions.
type PermissionStore interface {
	Upsert(ctx context.Context, p *permmodels.Permission) error
}

// Seeder populates in-memory stores with demo data.
type Seeder struct {
	persons PersonStore
	areas   AreaStore
	perms   PermissionStore
	logger  *slog.Logger
}

// New creates a new seeder.
func New(persons PersonStore, areas AreaStore, perms PermissionStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		persons: persons,
		areas:   areas,
		perms:   perms,
		logger:  logger,
	}
}

// SeedAll populates all stores with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	persons, err := s.seedPersons(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed persons: %w", err)
	}

	areas, err := s.seedAreas(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed areas: %w", err)
	}

	if err := s.seedPermissions(ctx, persons, areas); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"persons", len(persons),
		"areas", len(areas),
	)

	return nil
}

func (s *Seeder) seedPersons(ctx context.Context) ([]*personmodels.Person, error) {
	demoPersons := []struct {
		nombre    string
		matricula string
		huella1   domain.FingerprintID
	}{
		{nombre: "Ana Torres", matricula: "A-1001", huella1: 1},
		{nombre: "Bruno Diaz", matricula: "A-1002", huella1: 2},
		{nombre: "Carla Mejia", matricula: "A-1003", huella1: 3},
		{nombre: "Diego Soto", matricula: "A-1004", huella1: 0},
	}

	now := time.Now()
	out := make([]*personmodels.Person, 0, len(demoPersons))
	for _, d := range demoPersons {
		p, err := personmodels.NewPerson(domain.NewPersonID(), d.nombre, d.matricula, now)
		if err != nil {
			return nil, err
		}
		if err := s.persons.Create(ctx, p); err != nil {
			return nil, err
		}
		if d.huella1.IsSet() {
			if err := s.persons.SetFingerprint(ctx, p.ID, personmodels.Slot1, d.huella1); err != nil {
				return nil, err
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Seeder) seedAreas(ctx context.Context) ([]*areamodels.Area, error) {
	demoAreas := []string{"Lab Quimica", "Sala de Servidores", "Almacen"}

	now := time.Now()
	out := make([]*areamodels.Area, 0, len(demoAreas))
	for _, nombre := range demoAreas {
		a, err := areamodels.NewArea(areamodels.NewAreaID(), nombre, now)
		if err != nil {
			return nil, err
		}
		if err := s.areas.Create(ctx, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Seeder) seedPermissions(ctx context.Context, persons []*personmodels.Person, areas []*areamodels.Area) error {
	if len(persons) == 0 || len(areas) == 0 {
		return nil
	}

	// First person gets everything, second gets the first area only, one
	// explicit disabled record shows up in the management views.
	for _, a := range areas {
		if err := s.perms.Upsert(ctx, permmodels.New(persons[0].ID, a.Clave, true)); err != nil {
			return err
		}
	}
	if err := s.perms.Upsert(ctx, permmodels.New(persons[1].ID, areas[0].Clave, true)); err != nil {
		return err
	}
	if err := s.perms.Upsert(ctx, permmodels.New(persons[2].ID, areas[0].Clave, false)); err != nil {
		return err
	}
	return nil
}
