package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/person/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

func newPerson(t *testing.T, nombre, matricula string) *models.Person {
	t.Helper()
	p, err := models.NewPerson(domain.NewPersonID(), nombre, matricula, time.Now())
	require.NoError(t, err)
	return p
}

func TestCreateAndFindByID(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	p := newPerson(t, "Ana Torres", "A01234")
	require.NoError(t, store.Create(ctx, p))

	found, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", found.Nombre)
	assert.Equal(t, "A01234", found.Matricula)
}

func TestCreate_DuplicateIDConflicts(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	p := newPerson(t, "Ana Torres", "A01234")
	require.NoError(t, store.Create(ctx, p))
	assert.ErrorIs(t, store.Create(ctx, p), sentinel.ErrConflict)
}

func TestSetFingerprint(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes the template id", func(t *testing.T) {
		store := NewInMemory()
		p := newPerson(t, "Ana Torres", "A01234")
		require.NoError(t, store.Create(ctx, p))

		require.NoError(t, store.SetFingerprint(ctx, p.ID, models.Slot1, 42))

		found, err := store.FindByFingerprint(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, p.ID, found.ID)
	})

	t.Run("rejects a template id owned by someone else", func(t *testing.T) {
		store := NewInMemory()
		a := newPerson(t, "Ana Torres", "A01234")
		b := newPerson(t, "Bruno Diaz", "B05678")
		require.NoError(t, store.Create(ctx, a))
		require.NoError(t, store.Create(ctx, b))

		require.NoError(t, store.SetFingerprint(ctx, a.ID, models.Slot1, 42))
		assert.ErrorIs(t, store.SetFingerprint(ctx, b.ID, models.Slot1, 42), sentinel.ErrConflict)
	})

	t.Run("rejects an occupied slot", func(t *testing.T) {
		store := NewInMemory()
		p := newPerson(t, "Ana Torres", "A01234")
		require.NoError(t, store.Create(ctx, p))

		require.NoError(t, store.SetFingerprint(ctx, p.ID, models.Slot1, 42))
		assert.ErrorIs(t, store.SetFingerprint(ctx, p.ID, models.Slot1, 43), sentinel.ErrSlotTaken)
	})

	t.Run("unknown person", func(t *testing.T) {
		store := NewInMemory()
		assert.ErrorIs(t, store.SetFingerprint(ctx, domain.NewPersonID(), models.Slot1, 42), ErrNotFound)
	})
}

func TestFindByFingerprint_UnsetSentinelNeverResolves(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	p := newPerson(t, "Ana Torres", "A01234")
	require.NoError(t, store.Create(ctx, p))

	_, err := store.FindByFingerprint(ctx, domain.FingerprintUnset)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesIndexEntries(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	p := newPerson(t, "Ana Torres", "A01234")
	require.NoError(t, store.Create(ctx, p))
	require.NoError(t, store.SetFingerprint(ctx, p.ID, models.Slot1, 42))

	require.NoError(t, store.Delete(ctx, p.ID))

	_, err := store.FindByFingerprint(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_OrderedByCreation(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	first, err := models.NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	second, err := models.NewPerson(domain.NewPersonID(), "Bruno Diaz", "B05678", time.Now())
	require.NoError(t, err)

	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, first))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Torres", list[0].Nombre)
	assert.Equal(t, "Bruno Diaz", list[1].Nombre)
}
