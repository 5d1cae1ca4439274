package models

// Package is a single entry from uv.lock, enriched with installed-package
// metadata when available. Nodes live in a graph keyed by canonical name;
// all cross-references between nodes go through that key.
type Package struct {
	Name    string // canonical name
	Version string // locked version from uv.lock
	Summary string // from site-packages metadata, empty if unavailable

	// Requires maps dependency-group name to the group's requirements.
	// The main dependencies use the empty-string key.
	Requires map[string]*DependencyGroup

	// Dependents are the reverse edges: packages that declare a dependency
	// on this one.
	Dependents []Dependent
}

// DependencyGroup is a named list of requirements a package declares.
// Group name "" is the always-installed main group; any other name is an
// optional extra only pulled in when selected.
type DependencyGroup struct {
	Name         string
	Dependencies []Requirement
}

// Dependent records that another package depends on this one through a
// particular group. Package holds the canonical name of the depending
// package, resolved through the graph map on demand.
type Dependent struct {
	Through string // dependency-group name on the depending package
	Package string // canonical name of the depending package
}

// Requirement is one parsed dependency declaration such as
// "requests[socks]>=2.31; extra == 'test'".
type Requirement struct {
	Name      string   // canonical package name
	Extras    []string // extras requested on the dependency
	Specifier string   // version constraint, empty if none
	Marker    string   // environment marker, empty if none
	Raw       string   // original declaration string
}

// DependentNames returns the deduplicated canonical names of the packages
// that depend on p.
func (p *Package) DependentNames() []string {
	seen := make(map[string]struct{}, len(p.Dependents))
	var names []string
	for _, d := range p.Dependents {
		if _, ok := seen[d.Package]; ok {
			continue
		}
		seen[d.Package] = struct{}{}
		names = append(names, d.Package)
	}
	return names
}
