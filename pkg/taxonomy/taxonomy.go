// Package taxonomy defines the two coded catalogs reconciled by satmap:
// economic activities (variable-length prefix codes) and products/services
// (fixed 8-digit codes whose trailing zero padding encodes the level).
//
// Ancestor chains are computed here as pure functions of a code, before any
// store is touched. Existence of those ancestors is resolved separately
// through an Index scoped to a single run.
package taxonomy

import (
	"github.com/agentstation/satmap/pkg/errors"
)

// Taxonomy names one of the two catalogs.
type Taxonomy string

// Catalogs handled by the engine.
const (
	Activities Taxonomy = "activities"
	Products   Taxonomy = "products"
)

// String returns the string representation of the taxonomy.
func (t Taxonomy) String() string {
	return string(t)
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func codeError(t Taxonomy, code, reason string) error {
	return errors.NewCodeError(t.String(), code, reason)
}
