package pep440

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Satisfies reports whether version matches the given PEP 440 specifier set
// (comma-separated clauses, all of which must hold). A malformed specifier
// or an unparseable version degrades to "unconstrained": the answer is true.
func Satisfies(specifier, version string) bool {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return true
	}
	constraint, err := semver.NewConstraint(normalizeSpecifier(specifier))
	if err != nil {
		return true
	}
	v, err := semver.NewVersion(strings.TrimSpace(version))
	if err != nil {
		return true
	}
	return constraint.Check(v)
}

// IsLockedBySpecifier reports whether name is pinned below candidate by a
// recorded specifier: true exactly when a specifier is on record and the
// candidate version does not satisfy it.
func IsLockedBySpecifier(specifiers map[string]string, name, candidate string) bool {
	spec, ok := specifiers[name]
	if !ok || spec == "" {
		return false
	}
	return !Satisfies(spec, candidate)
}

// normalizeSpecifier rewrites PEP 440 clauses into the constraint syntax
// Masterminds understands. Clauses it cannot rewrite pass through untouched
// and surface as a constraint parse error in Satisfies.
func normalizeSpecifier(specifier string) string {
	clauses := strings.Split(specifier, ",")
	out := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		out = append(out, normalizeClause(clause))
	}
	return strings.Join(out, ", ")
}

func normalizeClause(clause string) string {
	switch {
	case strings.HasPrefix(clause, "==="):
		return "=" + strings.TrimSpace(clause[3:])
	case strings.HasPrefix(clause, "=="):
		ver := strings.TrimSpace(clause[2:])
		if strings.HasSuffix(ver, ".*") {
			// Wildcard equality: Masterminds takes the bare wildcard form.
			return ver
		}
		return "=" + padRelease(ver)
	case strings.HasPrefix(clause, "!="):
		ver := strings.TrimSpace(clause[2:])
		if strings.HasSuffix(ver, ".*") {
			return clause
		}
		return "!=" + padRelease(ver)
	case strings.HasPrefix(clause, "~="):
		return expandCompatibleRelease(strings.TrimSpace(clause[2:]))
	default:
		return clause
	}
}

// releasePattern matches a plain numeric release segment list with no
// pre/post/dev suffix and no wildcard.
var releasePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// padRelease zero-pads a plain partial version to three segments. Without
// this, Masterminds reads the missing segments of "=5.0" and "!=5.0" as
// wildcards, while PEP 440 equality matches only the exact release.
func padRelease(ver string) string {
	if !releasePattern.MatchString(ver) {
		return ver
	}
	for strings.Count(ver, ".") < 2 {
		ver += ".0"
	}
	return ver
}

// expandCompatibleRelease turns "~=X.Y[.Z]" into the equivalent pair of
// comparisons, e.g. "~=2.2" -> ">=2.2, <3" and "~=2.2.1" -> ">=2.2.1, <2.3".
func expandCompatibleRelease(ver string) string {
	segs := strings.Split(ver, ".")
	if len(segs) < 2 {
		return "~" + ver
	}
	prefix := segs[:len(segs)-1]
	last, err := strconv.Atoi(prefix[len(prefix)-1])
	if err != nil {
		return "~" + ver
	}
	upper := append(append([]string{}, prefix[:len(prefix)-1]...), strconv.Itoa(last+1))
	return ">=" + ver + ", <" + strings.Join(upper, ".")
}
