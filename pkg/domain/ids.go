// Package domain holds the small value types shared across the access-control
// domain: person identifiers, fingerprint template identifiers, and canonical
// area keys.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PersonID uniquely identifies an enrolled person.
type PersonID uuid.UUID

// NewPersonID generates a fresh person identifier.
func NewPersonID() PersonID {
	return PersonID(uuid.New())
}

// ParsePersonID parses a person ID from its string form.
func ParsePersonID(s string) (PersonID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PersonID{}, fmt.Errorf("parse person id: %w", err)
	}
	return PersonID(u), nil
}

func (id PersonID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id PersonID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// FingerprintID is a fingerprint template identifier assigned by the
// enrollment reader. Zero means "no fingerprint enrolled in this slot" and
// never matches anyone.
type FingerprintID int

// FingerprintUnset is the sentinel for an empty fingerprint slot.
const FingerprintUnset FingerprintID = 0

// IsSet reports whether the identifier refers to an enrolled template.
func (f FingerprintID) IsSet() bool {
	return f != FingerprintUnset
}

func (f FingerprintID) String() string {
	return strconv.Itoa(int(f))
}

// ParseFingerprintID parses a presented fingerprint identifier. Readers send
// the value either as a number or a numeric string; anything else is a parse
// error, which callers on the decision path treat as "no match" rather than
// a request failure.
func ParseFingerprintID(s string) (FingerprintID, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return FingerprintUnset, fmt.Errorf("parse fingerprint id %q: %w", s, err)
	}
	return FingerprintID(n), nil
}
