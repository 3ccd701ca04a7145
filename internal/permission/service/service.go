// Package service orchestrates permission grants between persons and areas.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	areamodels "aforo/internal/area/models"
	"aforo/internal/permission/models"
	"aforo/internal/permission/store"
	personmodels "aforo/internal/person/models"
	"aforo/internal/platform/metrics"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

// bulkWriteConcurrency caps parallel upserts during bulk grant updates.
const bulkWriteConcurrency = 8

// PersonDirectory resolves person records referenced by grants.
type PersonDirectory interface {
	FindByID(ctx context.Context, id domain.PersonID) (*personmodels.Person, error)
}

// AreaCatalog resolves area records referenced by grants.
type AreaCatalog interface {
	FindByKey(ctx context.Context, key domain.AreaKey) (*areamodels.Area, error)
	List(ctx context.Context) ([]*areamodels.Area, error)
}

// Grant is a person's effective access state for one area. Areas with no
// stored permission record appear with Habilitado=false.
type Grant struct {
	AreaKey    domain.AreaKey
	AreaNombre string
	Habilitado bool
}

// Service manages permission records.
type Service struct {
	perms   store.Store
	persons PersonDirectory
	areas   AreaCatalog
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a permission service.
func New(perms store.Store, persons PersonDirectory, areas AreaCatalog, opts ...Option) *Service {
	s := &Service{
		perms:   perms,
		persons: persons,
		areas:   areas,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPermission writes the access state for one (person, area) pair.
// Disabling writes an explicit Habilitado=false record rather than
// deleting, so the pair stays visible in the management surface.
func (s *Service) SetPermission(ctx context.Context, personID domain.PersonID, rawArea string, habilitado bool) error {
	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		return wrapLookupErr(err, "person not found", "failed to load person")
	}
	key := domain.NormalizeAreaKey(rawArea)
	if key == "" {
		return dErrors.New(dErrors.CodeValidation, "area key is required")
	}
	if _, err := s.areas.FindByKey(ctx, key); err != nil {
		return wrapLookupErr(err, "area not found", "failed to load area")
	}
	if err := s.perms.Upsert(ctx, models.New(personID, key, habilitado)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write permission")
	}
	if s.metrics != nil {
		s.metrics.PermissionsWritten.Inc()
	}
	return nil
}

// SetForPerson replaces the person's access state for every area named in
// grants. Every named pair is written, enabled or not. Returns the number
// of records written.
func (s *Service) SetForPerson(ctx context.Context, personID domain.PersonID, grants map[string]bool) (int, error) {
	if len(grants) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no grants provided")
	}
	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		return 0, wrapLookupErr(err, "person not found", "failed to load person")
	}

	// Resolve and dedupe keys up front so a single bad area rejects the
	// whole request before any write lands.
	keys := make(map[domain.AreaKey]bool, len(grants))
	for rawArea, habilitado := range grants {
		key := domain.NormalizeAreaKey(rawArea)
		if key == "" {
			return 0, dErrors.New(dErrors.CodeValidation, "area key is required")
		}
		if _, err := s.areas.FindByKey(ctx, key); err != nil {
			return 0, wrapLookupErr(err, "area not found: "+rawArea, "failed to load area")
		}
		keys[key] = habilitado
	}

	written, err := s.bulkUpsert(ctx, func(yield func(*models.Permission)) {
		for key, habilitado := range keys {
			yield(models.New(personID, key, habilitado))
		}
	})
	if err != nil {
		return written, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write permissions")
	}
	return written, nil
}

// SetForArea replaces the access state of every person named in grants for
// one area. Keys of grants are person ids. Returns the number of records
// written.
func (s *Service) SetForArea(ctx context.Context, rawArea string, grants map[string]bool) (int, error) {
	if len(grants) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no grants provided")
	}
	key := domain.NormalizeAreaKey(rawArea)
	if key == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "area key is required")
	}
	if _, err := s.areas.FindByKey(ctx, key); err != nil {
		return 0, wrapLookupErr(err, "area not found", "failed to load area")
	}

	ids := make(map[domain.PersonID]bool, len(grants))
	for rawID, habilitado := range grants {
		pid, err := domain.ParsePersonID(rawID)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeValidation, "invalid person id: "+rawID)
		}
		if _, err := s.persons.FindByID(ctx, pid); err != nil {
			return 0, wrapLookupErr(err, "person not found: "+rawID, "failed to load person")
		}
		ids[pid] = habilitado
	}

	written, err := s.bulkUpsert(ctx, func(yield func(*models.Permission)) {
		for pid, habilitado := range ids {
			yield(models.New(pid, key, habilitado))
		}
	})
	if err != nil {
		return written, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write permissions")
	}
	return written, nil
}

// ListForPerson reports the person's access state against the full area
// catalog. Areas without a stored record show as disabled.
func (s *Service) ListForPerson(ctx context.Context, personID domain.PersonID) ([]*Grant, error) {
	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		return nil, wrapLookupErr(err, "person not found", "failed to load person")
	}
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list areas")
	}
	perms, err := s.perms.ListByPerson(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
	}

	enabled := make(map[domain.AreaKey]bool, len(perms))
	for _, p := range perms {
		enabled[p.AreaKey] = p.Habilitado
	}

	grants := make([]*Grant, 0, len(areas))
	for _, a := range areas {
		grants = append(grants, &Grant{
			AreaKey:    a.Clave,
			AreaNombre: a.Nombre,
			Habilitado: enabled[a.Clave],
		})
	}
	return grants, nil
}

// ListForArea returns the stored permission records for one area.
func (s *Service) ListForArea(ctx context.Context, rawArea string) ([]*models.Permission, error) {
	key := domain.NormalizeAreaKey(rawArea)
	if key == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "area key is required")
	}
	if _, err := s.areas.FindByKey(ctx, key); err != nil {
		return nil, wrapLookupErr(err, "area not found", "failed to load area")
	}
	perms, err := s.perms.ListByArea(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
	}
	return perms, nil
}

// bulkUpsert fans writes out across a bounded worker group. A failed write
// cancels the remaining ones; writes already issued are kept, which is
// safe because each upsert is an independent full-row replacement.
func (s *Service) bulkUpsert(ctx context.Context, produce func(yield func(*models.Permission))) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkWriteConcurrency)

	var (
		mu      sync.Mutex
		written int
	)
	produce(func(p *models.Permission) {
		g.Go(func() error {
			if err := s.perms.Upsert(gctx, p); err != nil {
				return err
			}
			mu.Lock()
			written++
			mu.Unlock()
			if s.metrics != nil {
				s.metrics.PermissionsWritten.Inc()
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return written, err
	}
	return written, nil
}

func wrapLookupErr(err error, notFoundMsg, internalMsg string) error {
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
