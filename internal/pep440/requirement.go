package pep440

import (
	"regexp"
	"strings"

	"github.com/pydeptools/uv-outdated/internal/models"
)

// namePattern matches a valid package name at the start of a requirement,
// optionally followed by an extras bracket like [socks,security].
var namePattern = regexp.MustCompile(`^\s*([A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[([^\]]*)\])?`)

// clausePattern matches one version-comparison clause of a specifier.
var clausePattern = regexp.MustCompile(`^(===|==|~=|!=|>=|<=|<|>)\s*[0-9A-Za-z.*+!_-]+$`)

// ParseRequirement parses a PEP 508 style declaration such as
// "requests[socks]>=2.31,<3; extra == 'test'" into its parts. It never
// fails: anything it cannot make sense of collapses to a bare-name
// requirement with no constraint.
func ParseRequirement(raw string) models.Requirement {
	req := models.Requirement{Raw: raw}

	rest := raw
	if idx := strings.Index(rest, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(rest[idx+1:])
		rest = rest[:idx]
	}

	m := namePattern.FindStringSubmatch(rest)
	if m == nil {
		// Nothing recognizable as a name; fall back to the first token.
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			req.Name = Canonicalize(fields[0])
		}
		return req
	}

	req.Name = Canonicalize(m[1])
	if m[4] != "" {
		for _, extra := range strings.Split(m[4], ",") {
			extra = strings.TrimSpace(extra)
			if extra != "" {
				req.Extras = append(req.Extras, Canonicalize(extra))
			}
		}
	}

	spec := strings.TrimSpace(rest[len(m[0]):])
	spec = strings.TrimPrefix(spec, "(")
	spec = strings.TrimSuffix(spec, ")")
	spec = strings.TrimSpace(spec)
	if spec != "" && validSpecifier(spec) {
		req.Specifier = spec
	}
	return req
}

// validSpecifier reports whether every comma-separated clause looks like a
// comparison. Anything else is dropped so the requirement degrades to a
// bare name.
func validSpecifier(spec string) bool {
	for _, clause := range strings.Split(spec, ",") {
		if !clausePattern.MatchString(strings.TrimSpace(clause)) {
			return false
		}
	}
	return true
}

// MarkerExtra extracts the extra name from a marker like "extra == 'test'".
// Returns "" when the marker is not conditioned on an extra.
func MarkerExtra(marker string) string {
	idx := strings.Index(marker, "extra ==")
	if idx < 0 {
		return ""
	}
	name := marker[idx+len("extra =="):]
	if end := strings.Index(name, ")"); end >= 0 {
		name = name[:end]
	}
	// Markers can chain with "and"/"or"; the extra clause ends there.
	for _, sep := range []string{" and ", " or "} {
		if end := strings.Index(name, sep); end >= 0 {
			name = name[:end]
		}
	}
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `'"`)
	return Canonicalize(name)
}
