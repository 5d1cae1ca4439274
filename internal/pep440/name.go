// Package pep440 implements the small slice of PEP 440/508 this tool needs:
// name canonicalization, requirement parsing, and specifier evaluation.
// Parsing is deliberately lenient; lockfile and manifest content comes from
// uv, so an unparseable declaration degrades to a bare name instead of
// failing the run.
package pep440

import (
	"regexp"
	"strings"
)

// separatorRuns matches runs of the characters PyPI treats as equivalent
// separators in package names.
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// Canonicalize normalizes a package name the way PyPI does: lowercase, with
// every run of `-`, `_`, `.` collapsed to a single `-`. It is idempotent, so
// canonical names are safe to use as map keys everywhere.
func Canonicalize(name string) string {
	return strings.ToLower(separatorRuns.ReplaceAllString(strings.TrimSpace(name), "-"))
}
