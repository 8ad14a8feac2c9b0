// Package uid generates the identifiers used to correlate requests in logs.
package uid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a time-ordered (version 7) UUID so request ids sort by arrival
// in log stores. It falls back to a random UUID if the clock read fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Normalize returns id in canonical lowercase form when it is a non-nil
// UUID, and a fresh id otherwise.
func Normalize(id string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil || parsed == uuid.Nil {
		return New()
	}
	return parsed.String()
}
