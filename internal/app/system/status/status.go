// Package status defines account status values for users.
//
// A blocked account keeps its role but loses every mutating privilege; the
// access policy checks status before role so blocking is absolute even for
// admins. Accounts are never deleted, only blocked.
package status

import "strings"

const (
	// Active is the default account status.
	Active = "active"
	// Blocked denies all mutating actions regardless of role.
	Blocked = "blocked"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Blocked
}

// Normalize lowercases and trims a raw status value. Unknown values are
// returned as-is (lowercased) so validation failures stay visible.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
