package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
)

func TestNewPerson(t *testing.T) {
	now := time.Now()

	t.Run("starts with empty slots", func(t *testing.T) {
		p, err := NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", now)
		require.NoError(t, err)
		assert.False(t, p.Huella1.IsSet())
		assert.False(t, p.Huella2.IsSet())
	})

	t.Run("requires nombre", func(t *testing.T) {
		_, err := NewPerson(domain.NewPersonID(), "", "A01234", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("requires matricula", func(t *testing.T) {
		_, err := NewPerson(domain.NewPersonID(), "Ana Torres", "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestSetFingerprint(t *testing.T) {
	now := time.Now()

	t.Run("fills an empty slot", func(t *testing.T) {
		p, _ := NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", now)
		require.NoError(t, p.SetFingerprint(Slot1, 42, now))
		assert.Equal(t, domain.FingerprintID(42), p.Huella1)
	})

	t.Run("rejects occupied slot", func(t *testing.T) {
		p, _ := NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", now)
		require.NoError(t, p.SetFingerprint(Slot2, 42, now))
		err := p.SetFingerprint(Slot2, 43, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("rejects the unset sentinel", func(t *testing.T) {
		p, _ := NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", now)
		err := p.SetFingerprint(Slot1, domain.FingerprintUnset, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestMatches(t *testing.T) {
	now := time.Now()
	p, _ := NewPerson(domain.NewPersonID(), "Ana Torres", "A01234", now)
	require.NoError(t, p.SetFingerprint(Slot1, 42, now))

	assert.True(t, p.Matches(42))
	assert.False(t, p.Matches(43))

	// Unset slots must never match the zero sentinel.
	assert.False(t, p.Matches(domain.FingerprintUnset))
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot(1)
	require.NoError(t, err)
	assert.Equal(t, Slot1, s)

	s, err = ParseSlot(2)
	require.NoError(t, err)
	assert.Equal(t, Slot2, s)

	_, err = ParseSlot(3)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
