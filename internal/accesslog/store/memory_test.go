package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/accesslog/models"
	"aforo/pkg/domain"
)

func TestInMemory_AppendAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	e1 := models.NewEntry(domain.NewPersonID(), "Ana", "A-100", "sala1", 7, true)
	e2 := models.NewUnknownEntry("Usuario Desconocido", "sala1", 99)

	require.NoError(t, s.Append(ctx, e1))
	require.NoError(t, s.Append(ctx, e2))
	assert.Equal(t, int64(1), e1.ID)
	assert.Equal(t, int64(2), e2.ID)
}

func TestInMemory_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	pid := domain.NewPersonID()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, models.NewEntry(pid, "Ana", "A-100", "sala1", 7, i%2 == 0)))
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(5), entries[0].ID)
	assert.Equal(t, int64(3), entries[2].ID)
}

func TestInMemory_ListDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.Append(ctx, models.NewUnknownEntry("Usuario Desconocido", "sala1", 1)))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.UnknownPersonRef, entries[0].PersonRef)
	assert.False(t, entries[0].Acceso)
}
