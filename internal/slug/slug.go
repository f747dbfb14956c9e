// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// Make converts a title into a URL-safe slug: lower-cased, special
// characters stripped, runs of whitespace/underscores/hyphens collapsed to
// a single hyphen, leading and trailing hyphens trimmed. Deterministic and
// idempotent. Uniqueness is not guaranteed here; the storage layer enforces
// it with a unique constraint.
func Make(title string) string {
	s := strings.ToLower(title)
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
