package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAreaKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  AreaKey
	}{
		{"lowercases", "Lab Quimica", "labquimica"},
		{"strips inner whitespace", "sala a", "salaa"},
		{"strips surrounding whitespace", "  salaa  ", "salaa"},
		{"strips tabs and newlines", "sala\tb\n", "salab"},
		{"already canonical", "almacen", "almacen"},
		{"empty", "", ""},
		{"accented runes survive", "Almacén", "almacén"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAreaKey(tt.input))
		})
	}
}

func TestNormalizeAreaKey_Idempotent(t *testing.T) {
	for _, input := range []string{"Sala A", "sala a", " salaa ", "LAB QUIMICA"} {
		once := NormalizeAreaKey(input)
		assert.Equal(t, once, NormalizeAreaKey(once.String()), "input %q", input)
	}
}

func TestNormalizeAreaKey_CaseAndWhitespaceInsensitive(t *testing.T) {
	a := NormalizeAreaKey("Sala A")
	b := NormalizeAreaKey("sala a")
	c := NormalizeAreaKey(" salaa ")
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestParseFingerprintID(t *testing.T) {
	tests := []struct {
		input   string
		want    FingerprintID
		wantErr bool
	}{
		{"42", 42, false},
		{" 42 ", 42, false},
		{"0", 0, false},
		{"-3", -3, false},
		{"", 0, true},
		{"abc", 0, true},
		{"4.2", 0, true},
		{"42x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFingerprintID(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestFingerprintID_IsSet(t *testing.T) {
	assert.False(t, FingerprintUnset.IsSet())
	assert.True(t, FingerprintID(1).IsSet())
}
