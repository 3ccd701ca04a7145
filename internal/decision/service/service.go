// Package service implements the access decision procedure: resolve the
// presented fingerprint to a person, check the person's permission for
// the requested area, and append exactly one audit entry with the
// outcome. The rule is fail-closed: any ambiguity or failure denies.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	auditmodels "aforo/internal/accesslog/models"
	"aforo/internal/decision/metrics"
	permmodels "aforo/internal/permission/models"
	personmodels "aforo/internal/person/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// Placeholder identity returned when the presented fingerprint resolves
// to nobody.
const (
	UnknownNombre  = "Usuario Desconocido"
	UnknownMensaje = "unrecognized fingerprint"
)

// IdentityResolver maps a fingerprint template id to its owner.
// A miss is reported as sentinel.ErrNotFound.
type IdentityResolver interface {
	FindByFingerprint(ctx context.Context, fid domain.FingerprintID) (*personmodels.Person, error)
}

// PermissionReader fetches the stored permission for a (person, area)
// pair. Absence is reported as sentinel.ErrNotFound and means denied.
type PermissionReader interface {
	Find(ctx context.Context, personID domain.PersonID, areaKey domain.AreaKey) (*permmodels.Permission, error)
}

// AuditLog accepts the one append the decision procedure performs.
type AuditLog interface {
	Append(ctx context.Context, e *auditmodels.Entry) error
}

// Decision is the outcome of one access check.
type Decision struct {
	Acceso    bool
	Nombre    string
	Matricula string
	// Mensaje is set only when the fingerprint resolved to nobody.
	Mensaje string
}

// Service is the single consolidated decision procedure.
type Service struct {
	persons IdentityResolver
	perms   PermissionReader
	audit   AuditLog
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

// New creates the decision service.
func New(persons IdentityResolver, perms PermissionReader, audit AuditLog, opts ...Option) *Service {
	s := &Service{
		persons: persons,
		perms:   perms,
		audit:   audit,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs the full decision procedure for one validated request.
// The fingerprint id is the parsed presented identifier; callers pass
// FingerprintUnset when the device payload was non-numeric, which is a
// guaranteed miss rather than an error.
//
// A non-nil error means the procedure could not complete and the caller
// must report a server error with access denied. Even on error, an audit
// entry has been attempted; only an audit write failure itself can leave
// the attempt unrecorded.
func (s *Service) Evaluate(ctx context.Context, presented domain.FingerprintID, rawArea string) (*Decision, error) {
	start := time.Now()
	d, err := s.evaluate(ctx, presented, rawArea)
	if s.metrics != nil {
		s.metrics.EvaluateLatency.Observe(time.Since(start).Seconds())
		s.metrics.Decisions.WithLabelValues(outcome(d, err)).Inc()
	}
	return d, err
}

func (s *Service) evaluate(ctx context.Context, presented domain.FingerprintID, rawArea string) (*Decision, error) {
	areaKey := domain.NormalizeAreaKey(rawArea)

	person, err := s.resolve(ctx, presented)
	if err != nil {
		// Storage failed mid-resolution. Deny, attempt the audit entry,
		// surface a server error.
		s.appendBestEffort(ctx, auditmodels.NewUnknownEntry(UnknownNombre, areaKey, presented))
		return nil, fmt.Errorf("resolve fingerprint: %w", err)
	}

	if person == nil {
		entry := auditmodels.NewUnknownEntry(UnknownNombre, areaKey, presented)
		if err := s.append(ctx, entry); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "access denied",
			"person", auditmodels.UnknownPersonRef,
			"area", areaKey,
			"huella_id", presented,
		)
		return &Decision{Acceso: false, Nombre: UnknownNombre, Matricula: "", Mensaje: UnknownMensaje}, nil
	}

	acceso, err := s.authorize(ctx, person.ID, areaKey)
	if err != nil {
		s.appendBestEffort(ctx, auditmodels.NewEntry(person.ID, person.Nombre, person.Matricula, areaKey, presented, false))
		return nil, fmt.Errorf("check permission: %w", err)
	}

	entry := auditmodels.NewEntry(person.ID, person.Nombre, person.Matricula, areaKey, presented, acceso)
	if err := s.append(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "access decision",
		"person", person.ID,
		"area", areaKey,
		"huella_id", presented,
		"acceso", acceso,
	)
	return &Decision{Acceso: acceso, Nombre: person.Nombre, Matricula: person.Matricula}, nil
}

// resolve returns nil, nil when the fingerprint matches nobody. The unset
// sentinel never matches regardless of what the index holds.
func (s *Service) resolve(ctx context.Context, presented domain.FingerprintID) (*personmodels.Person, error) {
	if !presented.IsSet() {
		return nil, nil
	}
	person, err := s.persons.FindByFingerprint(ctx, presented)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return person, nil
}

// authorize applies the fail-closed rule: access is granted only when a
// permission record exists and its flag is true.
func (s *Service) authorize(ctx context.Context, personID domain.PersonID, areaKey domain.AreaKey) (bool, error) {
	perm, err := s.perms.Find(ctx, personID, areaKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.Habilitado, nil
}

func (s *Service) append(ctx context.Context, e *auditmodels.Entry) error {
	if err := s.audit.Append(ctx, e); err != nil {
		if s.metrics != nil {
			s.metrics.AuditFailures.Inc()
		}
		s.logger.ErrorContext(ctx, "audit append failed",
			"person", e.PersonRef,
			"area", e.AreaKey,
			"error", err,
		)
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// appendBestEffort records the attempt when the decision already failed.
// The append error is logged but not returned; the caller is reporting a
// server error either way.
func (s *Service) appendBestEffort(ctx context.Context, e *auditmodels.Entry) {
	_ = s.append(ctx, e)
}

func outcome(d *Decision, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeError
	case d.Acceso:
		return metrics.OutcomeGranted
	case d.Mensaje != "":
		return metrics.OutcomeUnresolved
	default:
		return metrics.OutcomeDenied
	}
}
