package pep440

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		specifier string
		version   string
		expected  bool
	}{
		// Compound specifiers AND their clauses together.
		{">=5.0,<5.1", "5.0.9", true},
		{">=5.0,<5.1", "5.2.0", false},
		{">=5.0, <5.1", "5.0.0", true},

		{">=2.31", "2.32.1", true},
		{">=2.31", "2.30.0", false},
		{"==4.12.2", "4.12.2", true},
		{"==4.12.2", "4.12.3", false},
		{"!=1.5.0", "1.5.0", false},
		{"!=1.5.0", "1.5.1", true},
		{"===2.0.0", "2.0.0", true},

		// Partial-version pins match only the exact release, not the
		// whole X.Y series.
		{"==5.0", "5.0", true},
		{"==5.0", "5.0.0", true},
		{"==5.0", "5.0.7", false},
		{"==5", "5.0.1", false},
		{"!=5.0", "5.0", false},
		{"!=5.0", "5.0.7", true},

		// Wildcard equality.
		{"==5.0.*", "5.0.7", true},
		{"==5.0.*", "5.1.0", false},

		// Compatible release.
		{"~=2.2", "2.9.0", true},
		{"~=2.2", "3.0.0", false},
		{"~=2.2.1", "2.2.5", true},
		{"~=2.2.1", "2.3.0", false},

		// Empty or malformed specifiers are unconstrained.
		{"", "1.0.0", true},
		{"  ", "1.0.0", true},
		{"not-a-spec", "1.0.0", true},
		{">=>=1.0", "0.1.0", true},

		// Unparseable versions degrade the same way.
		{">=1.0", "not.a.version", true},
	}

	for _, tt := range tests {
		t.Run(tt.specifier+"/"+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.expected, Satisfies(tt.specifier, tt.version))
		})
	}
}

func TestIsLockedBySpecifier(t *testing.T) {
	specifiers := map[string]string{
		"django":   ">=5.0,<5.1",
		"requests": ">=2.31",
		"empty":    "",
		"broken":   "@@not-a-specifier@@",
	}

	tests := []struct {
		name      string
		pkg       string
		candidate string
		expected  bool
	}{
		{"blocked by upper bound", "django", "5.2.0", true},
		{"within range", "django", "5.0.9", false},
		{"open-ended satisfied", "requests", "2.32.1", false},
		{"no specifier on record", "flask", "99.0.0", false},
		{"empty specifier", "empty", "1.0.0", false},
		{"malformed specifier", "broken", "1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLockedBySpecifier(specifiers, tt.pkg, tt.candidate))
		})
	}
}
