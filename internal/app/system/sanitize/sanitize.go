// Package sanitize strips markup from user-supplied free text before it is
// persisted. Request messages, addresses, and fund notes are rendered back
// into pages by the UI, so they must never carry HTML.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
