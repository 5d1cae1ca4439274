// Package lockfile parses uv.lock and builds the package graph the rest of
// the tool operates on.
package lockfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/pep440"
)

// Lockfile is the parsed, normalized content of uv.lock. Dependency
// declarations appear in the file either as bare strings or as inline
// tables; both forms are resolved into DepRef at parse time so nothing
// downstream has to care.
type Lockfile struct {
	Packages []PackageEntry
}

// PackageEntry is one [[package]] entry with names already canonicalized.
type PackageEntry struct {
	Name         string
	Version      string
	Dependencies []DepRef
	Optional     map[string][]DepRef // keyed by extra name
	RequiresDist []DepRef            // from [package.metadata] requires-dist
	Extras       []string            // extras materialized for this entry
}

// DepRef is a single resolved dependency reference.
type DepRef struct {
	Name      string // canonical
	Specifier string
	Marker    string
}

type rawLockfile struct {
	Version  int          `toml:"version"`
	Packages []rawPackage `toml:"package"`
}

type rawPackage struct {
	Name                 string                      `toml:"name"`
	Version              string                      `toml:"version"`
	Dependencies         []toml.Primitive            `toml:"dependencies"`
	OptionalDependencies map[string][]toml.Primitive `toml:"optional-dependencies"`
	Metadata             rawMetadata                 `toml:"metadata"`
	Extra                []string                    `toml:"extra"`
}

type rawMetadata struct {
	RequiresDist []toml.Primitive `toml:"requires-dist"`
}

type rawDep struct {
	Name      string `toml:"name"`
	Version   string `toml:"version"`
	Specifier string `toml:"specifier"`
	Marker    string `toml:"marker"`
}

// Load reads and parses the lockfile at path. A missing or malformed file
// is a configuration error; there is no partial result.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("uv.lock not found at %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	lock, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return lock, nil
}

// Parse decodes uv.lock content.
func Parse(data []byte) (*Lockfile, error) {
	var raw rawLockfile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	lock := &Lockfile{Packages: make([]PackageEntry, 0, len(raw.Packages))}
	for _, rp := range raw.Packages {
		entry := PackageEntry{
			Name:    pep440.Canonicalize(rp.Name),
			Version: rp.Version,
		}
		for _, extra := range rp.Extra {
			entry.Extras = append(entry.Extras, pep440.Canonicalize(extra))
		}
		entry.Dependencies = decodeDeps(md, rp.Dependencies)
		if len(rp.OptionalDependencies) > 0 {
			entry.Optional = make(map[string][]DepRef, len(rp.OptionalDependencies))
			for extra, prims := range rp.OptionalDependencies {
				entry.Optional[extra] = decodeDeps(md, prims)
			}
		}
		entry.RequiresDist = decodeDeps(md, rp.Metadata.RequiresDist)
		lock.Packages = append(lock.Packages, entry)
	}
	return lock, nil
}

// decodeDeps resolves the string-or-table dependency variant into DepRefs.
// Entries without a usable name are dropped.
func decodeDeps(md toml.MetaData, prims []toml.Primitive) []DepRef {
	var deps []DepRef
	for _, prim := range prims {
		var s string
		if err := md.PrimitiveDecode(prim, &s); err == nil {
			req := pep440.ParseRequirement(s)
			if req.Name != "" {
				deps = append(deps, DepRef{Name: req.Name, Specifier: req.Specifier, Marker: req.Marker})
			}
			continue
		}
		var rd rawDep
		if err := md.PrimitiveDecode(prim, &rd); err != nil {
			log.Debug("lockfile: skipping undecodable dependency entry: %v", err)
			continue
		}
		name := pep440.Canonicalize(rd.Name)
		if name == "" {
			continue
		}
		deps = append(deps, DepRef{Name: name, Specifier: rd.Specifier, Marker: rd.Marker})
	}
	return deps
}

// Graph builds the package graph: one node per lockfile entry, per-group
// requirement lists, and reverse dependent edges. meta may be nil or empty;
// summaries then stay empty and requirements fall back to the lockfile's
// own dependency references.
func (l *Lockfile) Graph(meta map[string]models.DistMetadata) map[string]*models.Package {
	graph := make(map[string]*models.Package, len(l.Packages))

	for _, entry := range l.Packages {
		pkg := &models.Package{
			Name:     entry.Name,
			Version:  entry.Version,
			Requires: make(map[string]*models.DependencyGroup),
		}
		if m, ok := meta[entry.Name]; ok {
			pkg.Summary = m.Summary
		}
		graph[entry.Name] = pkg
	}

	for _, entry := range l.Packages {
		pkg := graph[entry.Name]
		if reqs := requirementsFor(entry.Name, entry.Dependencies, meta); len(reqs) > 0 {
			pkg.Requires[""] = &models.DependencyGroup{Name: "", Dependencies: reqs}
		}
		for extra, deps := range entry.Optional {
			if reqs := requirementsFor(entry.Name, deps, meta); len(reqs) > 0 {
				pkg.Requires[extra] = &models.DependencyGroup{Name: extra, Dependencies: reqs}
			}
		}
	}

	for _, entry := range l.Packages {
		addDependents(graph, entry.Name, "", entry.Dependencies)
		for extra, deps := range entry.Optional {
			addDependents(graph, entry.Name, extra, deps)
		}
	}

	return graph
}

// requirementsFor builds the Requirement list for one dependency group,
// preferring the owner's exact Requires-Dist string from installed metadata
// over the lockfile's bare reference.
func requirementsFor(owner string, deps []DepRef, meta map[string]models.DistMetadata) []models.Requirement {
	var reqs []models.Requirement
	ownerMeta, haveMeta := meta[owner]
	for _, dep := range deps {
		if haveMeta {
			if req, ok := metadataRequirement(ownerMeta, dep.Name); ok {
				reqs = append(reqs, req)
				continue
			}
		}
		reqs = append(reqs, models.Requirement{
			Name:      dep.Name,
			Specifier: dep.Specifier,
			Marker:    dep.Marker,
			Raw:       dep.Name + dep.Specifier,
		})
	}
	return reqs
}

// metadataRequirement finds the Requires-Dist declaration matching dep by
// canonical name.
func metadataRequirement(m models.DistMetadata, dep string) (models.Requirement, bool) {
	for _, raw := range m.RequiresDist {
		req := pep440.ParseRequirement(raw)
		if req.Name == dep {
			return req, true
		}
	}
	return models.Requirement{}, false
}

// addDependents appends a reverse edge onto every dependency of owner that
// exists in the graph. Names outside the graph are environment-conditional
// packages not resolved here; no edge is created for them.
func addDependents(graph map[string]*models.Package, owner, group string, deps []DepRef) {
	for _, dep := range deps {
		if node, ok := graph[dep.Name]; ok {
			node.Dependents = append(node.Dependents, models.Dependent{Through: group, Package: owner})
		}
	}
}

// Specifiers collects the active version constraint per package name. It
// takes constraints from the project's own requires-dist metadata in the
// lockfile, then from installed-package metadata, skipping any constraint
// whose marker names an extra that is not materialized for that package.
func (l *Lockfile) Specifiers(meta map[string]models.DistMetadata) map[string]string {
	specifiers := make(map[string]string)

	installedExtras := make(map[string]map[string]bool, len(l.Packages))
	for _, entry := range l.Packages {
		extras := make(map[string]bool, len(entry.Extras))
		for _, extra := range entry.Extras {
			extras[extra] = true
		}
		installedExtras[entry.Name] = extras
	}

	for _, entry := range l.Packages {
		for _, dep := range entry.RequiresDist {
			if dep.Name != "" && dep.Specifier != "" {
				specifiers[dep.Name] = dep.Specifier
			}
		}
	}

	for name, m := range meta {
		pkgExtras := installedExtras[name]
		for _, raw := range m.RequiresDist {
			req := pep440.ParseRequirement(raw)
			if req.Name == "" || req.Specifier == "" {
				continue
			}
			if extra := pep440.MarkerExtra(req.Marker); extra != "" && !pkgExtras[extra] {
				continue
			}
			specifiers[req.Name] = req.Specifier
		}
	}

	return specifiers
}
