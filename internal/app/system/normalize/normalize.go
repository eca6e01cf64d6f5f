// Package normalize provides canonical forms for user-supplied identity
// fields so lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Mongo's unique index on
// users.email assumes addresses are stored in this form.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Name collapses surrounding whitespace in a display name.
func Name(n string) string {
	return strings.Join(strings.Fields(n), " ")
}

// Role lowercases and trims a role tag.
func Role(r string) string {
	return strings.ToLower(strings.TrimSpace(r))
}
