package string

import (
	"strings"
)

// TrimStrings trims leading and trailing whitespace from each string in place.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}
