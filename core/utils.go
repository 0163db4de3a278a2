package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var errInvalidID = errors.New("Invalid ID format")

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CheckID verifies that the given identifiers are well-formed UUIDs before
// they reach storage. Malformed identifiers surface as a validation failure,
// never as a storage error.
func CheckID(ids ...string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return NewValidationError(errInvalidID)
		}
	}
	return nil
}
