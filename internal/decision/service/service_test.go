package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditmodels "aforo/internal/accesslog/models"
	auditstore "aforo/internal/accesslog/store"
	permmodels "aforo/internal/permission/models"
	permstore "aforo/internal/permission/store"
	personmodels "aforo/internal/person/models"
	personstore "aforo/internal/person/store"
	"aforo/pkg/domain"
)

type fixture struct {
	svc     *Service
	persons *personstore.InMemory
	perms   *permstore.InMemory
	audit   *auditstore.InMemory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	persons := personstore.NewInMemory()
	perms := permstore.NewInMemory()
	audit := auditstore.NewInMemory()
	return &fixture{
		svc:     New(persons, perms, audit),
		persons: persons,
		perms:   perms,
		audit:   audit,
	}
}

func (f *fixture) enroll(t *testing.T, nombre, matricula string, fid domain.FingerprintID) *personmodels.Person {
	t.Helper()
	ctx := context.Background()
	p, err := personmodels.NewPerson(domain.NewPersonID(), nombre, matricula, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.persons.Create(ctx, p))
	require.NoError(t, f.persons.SetFingerprint(ctx, p.ID, personmodels.Slot1, fid))
	return p
}

func (f *fixture) auditEntries(t *testing.T) []*auditmodels.Entry {
	t.Helper()
	entries, err := f.audit.List(context.Background(), 0)
	require.NoError(t, err)
	return entries
}

func TestEvaluate_GrantedWithEnabledPermission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.enroll(t, "Ana Torres", "A-1001", 42)
	require.NoError(t, f.perms.Upsert(ctx, permmodels.New(p.ID, "labquimica", true)))

	d, err := f.svc.Evaluate(ctx, 42, "Lab Quimica")
	require.NoError(t, err)
	assert.True(t, d.Acceso)
	assert.Equal(t, "Ana Torres", d.Nombre)
	assert.Equal(t, "A-1001", d.Matricula)
	assert.Empty(t, d.Mensaje)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, p.ID.String(), entries[0].PersonRef)
	assert.Equal(t, domain.AreaKey("labquimica"), entries[0].AreaKey)
	assert.Equal(t, domain.FingerprintID(42), entries[0].HuellaID)
	assert.True(t, entries[0].Acceso)
}

func TestEvaluate_DeniedWithoutPermissionRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "Ana Torres", "A-1001", 42)

	d, err := f.svc.Evaluate(ctx, 42, "Almacen")
	require.NoError(t, err)
	assert.False(t, d.Acceso)
	assert.Equal(t, "Ana Torres", d.Nombre)
	assert.Empty(t, d.Mensaje)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Acceso)
}

func TestEvaluate_DeniedWithDisabledPermission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.enroll(t, "Ana Torres", "A-1001", 42)
	require.NoError(t, f.perms.Upsert(ctx, permmodels.New(p.ID, "sala1", false)))

	d, err := f.svc.Evaluate(ctx, 42, "Sala 1")
	require.NoError(t, err)
	assert.False(t, d.Acceso)
}

func TestEvaluate_UnrecognizedFingerprint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	d, err := f.svc.Evaluate(ctx, 999, "Lab Quimica")
	require.NoError(t, err)
	assert.False(t, d.Acceso)
	assert.Equal(t, UnknownNombre, d.Nombre)
	assert.Empty(t, d.Matricula)
	assert.Equal(t, UnknownMensaje, d.Mensaje)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, auditmodels.UnknownPersonRef, entries[0].PersonRef)
	assert.Equal(t, domain.FingerprintID(999), entries[0].HuellaID)
	assert.False(t, entries[0].Acceso)
}

func TestEvaluate_UnsetSentinelNeverMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "Ana Torres", "A-1001", 42)

	d, err := f.svc.Evaluate(ctx, domain.FingerprintUnset, "Lab Quimica")
	require.NoError(t, err)
	assert.False(t, d.Acceso)
	assert.Equal(t, UnknownMensaje, d.Mensaje)
	require.Len(t, f.auditEntries(t), 1)
}

func TestEvaluate_AreaNameCanonicalization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.enroll(t, "Ana Torres", "A-1001", 42)
	require.NoError(t, f.perms.Upsert(ctx, permmodels.New(p.ID, "salaa", true)))

	for _, area := range []string{"Sala A", "sala a", " salaa "} {
		d, err := f.svc.Evaluate(ctx, 42, area)
		require.NoError(t, err)
		assert.True(t, d.Acceso, "area %q", area)
	}
}

type failingResolver struct{}

func (failingResolver) FindByFingerprint(context.Context, domain.FingerprintID) (*personmodels.Person, error) {
	return nil, errors.New("store down")
}

type failingPermissions struct{}

func (failingPermissions) Find(context.Context, domain.PersonID, domain.AreaKey) (*permmodels.Permission, error) {
	return nil, errors.New("store down")
}

type failingAudit struct{}

func (failingAudit) Append(context.Context, *auditmodels.Entry) error {
	return errors.New("store down")
}

func TestEvaluate_ResolutionFailureStillAudits(t *testing.T) {
	audit := auditstore.NewInMemory()
	svc := New(failingResolver{}, permstore.NewInMemory(), audit)

	_, err := svc.Evaluate(context.Background(), 42, "Sala 1")
	require.Error(t, err)

	entries, err := audit.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditmodels.UnknownPersonRef, entries[0].PersonRef)
	assert.False(t, entries[0].Acceso)
}

func TestEvaluate_PermissionFailureAuditsDenied(t *testing.T) {
	f := newFixture(t)
	p := f.enroll(t, "Ana Torres", "A-1001", 42)

	svc := New(f.persons, failingPermissions{}, f.audit)
	_, err := svc.Evaluate(context.Background(), 42, "Sala 1")
	require.Error(t, err)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, p.ID.String(), entries[0].PersonRef)
	assert.False(t, entries[0].Acceso)
}

func TestEvaluate_AuditFailureIsServerError(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "Ana Torres", "A-1001", 42)

	svc := New(f.persons, f.perms, failingAudit{})
	_, err := svc.Evaluate(context.Background(), 42, "Sala 1")
	require.Error(t, err)
}
