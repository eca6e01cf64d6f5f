// Package bloodgroups validates the eight standard ABO/Rh blood types.
package bloodgroups

import "strings"

// All lists the eight standard ABO/Rh blood groups in display order.
var All = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var valid = func() map[string]struct{} {
	m := make(map[string]struct{}, len(All))
	for _, g := range All {
		m[g] = struct{}{}
	}
	return m
}()

// IsValid reports whether g is one of the eight standard groups.
// Comparison is exact after trimming and uppercasing the letters.
func IsValid(g string) bool {
	_, ok := valid[Normalize(g)]
	return ok
}

// Normalize trims whitespace and uppercases the ABO letters, so "o+" and
// " ab- " match their canonical forms.
func Normalize(g string) string {
	return strings.ToUpper(strings.TrimSpace(g))
}
