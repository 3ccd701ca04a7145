package domain

import (
	"strings"
	"unicode"
)

// AreaKey is the canonical join key derived from an area's display name:
// lower-cased with all whitespace removed. Two areas whose names normalize to
// the same key are indistinguishable to the permission system, so key
// collisions are treated as naming conflicts at creation time.
type AreaKey string

func (k AreaKey) String() string {
	return string(k)
}

// IsZero reports whether the key is empty.
func (k AreaKey) IsZero() bool {
	return k == ""
}

// NormalizeAreaKey derives the canonical key for an area name. The
// transformation is idempotent: normalizing an already-canonical key returns
// it unchanged.
func NormalizeAreaKey(name string) AreaKey {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return AreaKey(b.String())
}
