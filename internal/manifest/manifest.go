// Package manifest extracts the project's declared dependencies from
// pyproject.toml: the flat direct-dependency set and the named group each
// declaration belongs to.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/pep440"
)

// Manifest holds the project-level dependency declarations.
type Manifest struct {
	// Direct maps canonical name to the declared requirement, across the
	// main list, every extra, and every dependency group. A package is a
	// direct dependency iff its name is a key here.
	Direct map[string]models.Requirement

	// Groups maps group name to the set of canonical names declared in it.
	// The main dependency list uses the empty-string group. Membership is a
	// set relation: one name may appear in several groups.
	Groups map[string]map[string]bool
}

type rawPyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]toml.Primitive `toml:"dependency-groups"`
}

// Load reads and parses the manifest at path. A missing or malformed file
// is a configuration error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pyproject.toml not found at %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes pyproject.toml content. It understands PEP 621 dependencies
// and optional-dependencies plus PEP 735 [dependency-groups]; group entries
// that are include-group tables rather than requirement strings are skipped.
func Parse(data []byte) (*Manifest, error) {
	var raw rawPyproject
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Direct: make(map[string]models.Requirement),
		Groups: make(map[string]map[string]bool),
	}

	m.addGroup("", raw.Project.Dependencies)
	for extra, deps := range raw.Project.OptionalDependencies {
		m.addGroup(extra, deps)
	}
	for group, prims := range raw.DependencyGroups {
		var deps []string
		for _, prim := range prims {
			var s string
			if err := md.PrimitiveDecode(prim, &s); err != nil {
				log.Debug("manifest: skipping non-string entry in dependency group %q", group)
				continue
			}
			deps = append(deps, s)
		}
		m.addGroup(group, deps)
	}

	return m, nil
}

func (m *Manifest) addGroup(group string, deps []string) {
	for _, raw := range deps {
		req := pep440.ParseRequirement(raw)
		if req.Name == "" {
			continue
		}
		m.Direct[req.Name] = req
		members, ok := m.Groups[group]
		if !ok {
			members = make(map[string]bool)
			m.Groups[group] = members
		}
		members[req.Name] = true
	}
}
