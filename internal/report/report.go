// Package report reconciles the lockfile graph against the resolver's
// outdated report and groups the result for display.
package report

import (
	"sort"

	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/pep440"
)

// Filter selects which classification of packages to report.
type Filter int

const (
	FilterAll Filter = iota
	FilterDirect
	FilterTransitive
)

// Entry is one outdated package joined against the graph.
type Entry struct {
	Name     string
	Package  *models.Package
	Outdated models.OutdatedPkg
	Direct   bool
}

// UnknownAncestor is the reserved ancestor-bucket key for transitive
// packages whose upward traversal reaches no direct dependency. A
// well-formed lockfile should never produce it, but partial or hand-edited
// lockfiles do exist.
const UnknownAncestor = "_unknown"

// Result is the display-ready outcome of one check run, handed to the
// presentation layer.
type Result struct {
	Entries    []Entry
	Groups     map[string][]Entry // by dependency group, "" = main
	Ancestors  *AncestorGroups    // nil unless ancestor grouping was requested
	Graph      map[string]*models.Package
	Direct     map[string]models.Requirement
	Specifiers map[string]string
	// TotalLocked and TotalChecked let the no-findings path still say
	// something useful about the environment.
	TotalLocked  int
	TotalChecked int
}

// Reconcile joins the graph with the outdated report. A package qualifies
// only if its canonical name is a key in outdated; direct means membership
// in the manifest's direct set. Output is sorted by name.
func Reconcile(graph map[string]*models.Package, outdated map[string]models.OutdatedPkg, direct map[string]models.Requirement, filter Filter) []Entry {
	var entries []Entry
	for name, pkg := range graph {
		fact, ok := outdated[name]
		if !ok {
			continue
		}
		_, isDirect := direct[name]
		if filter == FilterDirect && !isDirect {
			continue
		}
		if filter == FilterTransitive && isDirect {
			continue
		}
		entries = append(entries, Entry{Name: name, Package: pkg, Outdated: fact, Direct: isDirect})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// FindDirectAncestors walks dependent edges upward from name and collects
// every direct dependency that transitively pulls it in. Traversal does not
// stop at a found ancestor, since separate paths can lead to different
// direct dependencies. The visited set makes dependency cycles terminate.
func FindDirectAncestors(name string, graph map[string]*models.Package, direct map[string]models.Requirement) map[string]bool {
	ancestors := make(map[string]bool)
	visited := make(map[string]bool)
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		pkg, ok := graph[current]
		if !ok {
			continue
		}
		for _, dep := range pkg.Dependents {
			if _, isDirect := direct[dep.Package]; isDirect {
				ancestors[dep.Package] = true
			} else {
				queue = append(queue, dep.Package)
			}
		}
	}
	return ancestors
}

// GroupByDependencyGroup buckets entries by manifest dependency group. A
// direct entry lands in every group that declares it; a transitive entry
// lands in the groups of its dependents. Entries matching no declared group
// default to the main group. Multi-membership is expected, not an error.
func GroupByDependencyGroup(entries []Entry, groups map[string]map[string]bool) map[string][]Entry {
	buckets := make(map[string][]Entry)

	for _, entry := range entries {
		found := make(map[string]bool)
		if entry.Direct {
			for group, members := range groups {
				if members[entry.Name] {
					found[group] = true
				}
			}
		} else {
			for _, dep := range entry.Package.Dependents {
				for group, members := range groups {
					if members[dep.Package] {
						found[group] = true
					}
				}
			}
		}
		if len(found) == 0 {
			found[""] = true
		}
		for group := range found {
			buckets[group] = append(buckets[group], entry)
		}
	}
	return buckets
}

// AncestorGroups buckets entries under the direct dependency that pulls
// them in.
type AncestorGroups struct {
	// Buckets maps a direct dependency name (or UnknownAncestor) to its
	// member entries. A transitive entry with several ancestors appears in
	// each of their buckets.
	Buckets map[string][]Entry

	// HasTransitive marks direct dependencies that own transitive members,
	// which the presentation layer renders as section headers rather than
	// lone rows.
	HasTransitive map[string]bool
}

// GroupByAncestor assigns each direct entry its own bucket and attributes
// each transitive entry to every direct ancestor found by upward traversal,
// or to UnknownAncestor when there is none.
func GroupByAncestor(entries []Entry, graph map[string]*models.Package, direct map[string]models.Requirement) *AncestorGroups {
	groups := &AncestorGroups{
		Buckets:       make(map[string][]Entry),
		HasTransitive: make(map[string]bool),
	}

	for _, entry := range entries {
		if entry.Direct {
			groups.Buckets[entry.Name] = append(groups.Buckets[entry.Name], entry)
			continue
		}
		ancestors := FindDirectAncestors(entry.Name, graph, direct)
		if len(ancestors) == 0 {
			groups.Buckets[UnknownAncestor] = append(groups.Buckets[UnknownAncestor], entry)
			continue
		}
		for _, ancestor := range sortedKeys(ancestors) {
			groups.Buckets[ancestor] = append(groups.Buckets[ancestor], entry)
			groups.HasTransitive[ancestor] = true
		}
	}
	return groups
}

// Row is the flat, display-ready view of one entry.
type Row struct {
	Name       string   `json:"name"`
	Current    string   `json:"current"`
	Latest     string   `json:"latest"`
	Direct     bool     `json:"direct"`
	Constraint string   `json:"constraint,omitempty"`
	Dependents []string `json:"dependents,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// Row renders the entry. The constraint is only surfaced when the latest
// version differs from the locked one and a recorded specifier blocks it.
func (e Entry) Row(specifiers map[string]string) Row {
	row := Row{
		Name:    e.Name,
		Current: e.Package.Version,
		Latest:  e.Outdated.LatestVersion,
		Direct:  e.Direct,
		Summary: e.Package.Summary,
	}
	if row.Latest != row.Current && pep440.IsLockedBySpecifier(specifiers, e.Name, row.Latest) {
		row.Constraint = specifiers[e.Name]
	}
	if !e.Direct {
		row.Dependents = e.Package.DependentNames()
		sort.Strings(row.Dependents)
	}
	return row
}

// GroupOrder returns the bucket keys in display order: the main group
// first, then the named groups alphabetically.
func GroupOrder(buckets map[string][]Entry) []string {
	var names []string
	for name := range buckets {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := buckets[""]; ok {
		names = append([]string{""}, names...)
	}
	return names
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
