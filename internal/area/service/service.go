// Package service orchestrates area lifecycle management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"aforo/internal/area/models"
	"aforo/internal/area/store"
	"aforo/internal/platform/metrics"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

// PermissionPurger removes permission records that reference an area key.
// Deleting an area would otherwise leave orphaned permission rows granting
// access to a zone that no longer exists.
type PermissionPurger interface {
	DeleteByAreaKey(ctx context.Context, key domain.AreaKey) (int, error)
}

// Service manages area records.
type Service struct {
	areas       store.Store
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

// New creates an area service.
func New(areas store.Store, permissions PermissionPurger, opts ...Option) *Service {
	s := &Service{
		areas:       areas,
		permissions: permissions,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateArea registers a new access zone. The canonical key is derived from
// the name; a collision with an existing area's key is a conflict.
func (s *Service) CreateArea(ctx context.Context, nombre string) (*models.Area, error) {
	a, err := models.NewArea(models.NewAreaID(), strings.TrimSpace(nombre), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.areas.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an area with the same canonical key already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create area")
	}
	if s.metrics != nil {
		s.metrics.AreasCreated.Inc()
	}
	return a, nil
}

// UpdateArea renames an area. Permissions keyed on the old canonical key stay
// keyed on it; renaming an area effectively resets its permission set, which
// is surfaced to the operator by the UI.
func (s *Service) UpdateArea(ctx context.Context, id models.AreaID, nombre string) (*models.Area, error) {
	a, err := s.GetArea(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Rename(strings.TrimSpace(nombre), time.Now()); err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an area with the same canonical key already exists")
		}
		return nil, wrapAreaErr(err, "failed to update area")
	}
	return a, nil
}

// DeleteArea removes an area and purges permission records referencing its
// canonical key. Audit entries keep the key for historical reporting.
func (s *Service) DeleteArea(ctx context.Context, id models.AreaID) error {
	a, err := s.GetArea(ctx, id)
	if err != nil {
		return err
	}
	if err := s.areas.Delete(ctx, id); err != nil {
		return wrapAreaErr(err, "failed to delete area")
	}
	if s.permissions != nil {
		purged, err := s.permissions.DeleteByAreaKey(ctx, a.Clave)
		if err != nil {
			// The area itself is gone; surface the partial cleanup rather
			// than failing the whole operation.
			s.logger.ErrorContext(ctx, "failed to purge permissions for deleted area",
				"error", err, "area_key", a.Clave)
		} else if purged > 0 {
			s.logger.InfoContext(ctx, "purged permissions for deleted area",
				"area_key", a.Clave, "count", purged)
		}
	}
	return nil
}

// GetArea retrieves an area by id.
func (s *Service) GetArea(ctx context.Context, id models.AreaID) (*models.Area, error) {
	a, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return nil, wrapAreaErr(err, "failed to load area")
	}
	return a, nil
}

// ListAreas returns all areas ordered by canonical key.
func (s *Service) ListAreas(ctx context.Context) ([]*models.Area, error) {
	list, err := s.areas.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list areas")
	}
	return list, nil
}

func wrapAreaErr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "area not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
