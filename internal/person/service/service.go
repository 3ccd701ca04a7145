// Package service orchestrates person lifecycle management and the
// fingerprint enrollment flow.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"aforo/internal/person/models"
	"aforo/internal/person/store"
	"aforo/internal/platform/metrics"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

// Enroller triggers a fingerprint scan on the reader module and returns the
// assigned template id.
type Enroller interface {
	Enroll(ctx context.Context) (domain.FingerprintID, error)
}

// PermissionPurger removes permission records held by a person. The
// PostgreSQL backend cascades via foreign key; the memory backend relies
// on this hook.
type PermissionPurger interface {
	DeleteByPerson(ctx context.Context, id domain.PersonID) (int, error)
}

// Service manages person records.
type Service struct {
	persons     store.Store
	device      Enroller
	permissions PermissionPurger
	metrics     *metrics.Metrics
	logger      *slog.Logger
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

// WithPermissionPurger sets the hook that clears a person's permissions
// when the person is deleted.
func WithPermissionPurger(p PermissionPurger) Option {
	return func(s *Service) {
		s.permissions = p
	}
}

// New creates a person service. The enroller may be nil when no reader is
// deployed; enrollment then fails with an unavailable error.
func New(persons store.Store, device Enroller, opts ...Option) *Service {
	s := &Service{
		persons: persons,
		device:  device,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePerson registers a new person with empty fingerprint slots.
func (s *Service) CreatePerson(ctx context.Context, nombre, matricula string) (*models.Person, error) {
	p, err := models.NewPerson(domain.NewPersonID(), strings.TrimSpace(nombre), strings.TrimSpace(matricula), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.persons.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
	}
	if s.metrics != nil {
		s.metrics.PersonsCreated.Inc()
	}
	return p, nil
}

// UpdatePerson overwrites the person's display name and institutional
// identifier. Fingerprint slots are untouched.
func (s *Service) UpdatePerson(ctx context.Context, id domain.PersonID, nombre, matricula string) (*models.Person, error) {
	p, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	nombre = strings.TrimSpace(nombre)
	matricula = strings.TrimSpace(matricula)
	if nombre == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nombre is required")
	}
	if matricula == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "matricula is required")
	}

	p.Nombre = nombre
	p.Matricula = matricula
	p.UpdatedAt = time.Now()
	if err := s.persons.Update(ctx, p); err != nil {
		return nil, wrapPersonErr(err, "failed to update person")
	}
	return p, nil
}

// DeletePerson removes a person. Their permission records go with them;
// historical audit entries keep the denormalized name and identifier.
func (s *Service) DeletePerson(ctx context.Context, id domain.PersonID) error {
	if err := s.persons.Delete(ctx, id); err != nil {
		return wrapPersonErr(err, "failed to delete person")
	}
	if s.permissions != nil {
		if n, err := s.permissions.DeleteByPerson(ctx, id); err != nil {
			s.logger.Warn("failed to purge permissions for deleted person",
				"person_id", id, "error", err)
		} else if n > 0 {
			s.logger.Info("purged permissions for deleted person",
				"person_id", id, "count", n)
		}
	}
	if s.metrics != nil {
		s.metrics.PersonsDeleted.Inc()
	}
	return nil
}

// GetPerson retrieves a person by id.
func (s *Service) GetPerson(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "person id is required")
	}
	p, err := s.persons.FindByID(ctx, id)
	if err != nil {
		return nil, wrapPersonErr(err, "failed to load person")
	}
	return p, nil
}

// ListPersons returns all persons in creation order.
func (s *Service) ListPersons(ctx context.Context) ([]*models.Person, error) {
	list, err := s.persons.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	return list, nil
}

// EnrollFingerprint runs the enrollment flow for one slot: trigger a scan on
// the reader, then persist the returned template id. The slot must be empty
// and the template id must not belong to anyone else.
func (s *Service) EnrollFingerprint(ctx context.Context, id domain.PersonID, slot models.Slot) (*models.Person, error) {
	p, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Fingerprint(slot).IsSet() {
		return nil, dErrors.New(dErrors.CodeConflict, "fingerprint slot already occupied")
	}
	if s.device == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "enrollment reader not configured")
	}

	fid, err := s.device.Enroll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "enrollment reader call failed", "error", err, "person_id", id)
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeUnavailable, "enrollment reader unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "enrollment failed")
	}

	if err := s.persons.SetFingerprint(ctx, id, slot, fid); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrSlotTaken):
			return nil, dErrors.New(dErrors.CodeConflict, "fingerprint slot already occupied")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "fingerprint already enrolled for another person")
		case errors.Is(err, store.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store fingerprint")
		}
	}

	if s.metrics != nil {
		s.metrics.FingerprintsEnrolled.Inc()
	}
	return s.GetPerson(ctx, id)
}

func wrapPersonErr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
