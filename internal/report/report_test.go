package report

import (
	"testing"

	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGraph builds the canonical scenario: a is the only direct dependency
// and depends on b; c is locked but never reported outdated.
func testGraph() (map[string]*models.Package, map[string]models.Requirement) {
	a := &models.Package{
		Name:    "a",
		Version: "1.0",
		Requires: map[string]*models.DependencyGroup{
			"": {Name: "", Dependencies: []models.Requirement{{Name: "b"}}},
		},
	}
	b := &models.Package{
		Name:       "b",
		Version:    "1.0",
		Requires:   map[string]*models.DependencyGroup{},
		Dependents: []models.Dependent{{Through: "", Package: "a"}},
	}
	c := &models.Package{Name: "c", Version: "2.0", Requires: map[string]*models.DependencyGroup{}}

	graph := map[string]*models.Package{"a": a, "b": b, "c": c}
	direct := map[string]models.Requirement{"a": {Name: "a"}}
	return graph, direct
}

func testOutdated() map[string]models.OutdatedPkg {
	return map[string]models.OutdatedPkg{
		"a": {Name: "a", Version: "1.0", LatestVersion: "2.0"},
		"b": {Name: "b", Version: "1.0", LatestVersion: "1.1"},
	}
}

func TestReconcile(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)

	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.True(t, entries[0].Direct)
	assert.Equal(t, "b", entries[1].Name)
	assert.False(t, entries[1].Direct)

	// c is locked but not in the resolver output, so it never appears.
	for _, entry := range entries {
		assert.NotEqual(t, "c", entry.Name)
	}
}

func TestReconcileFilters(t *testing.T) {
	graph, direct := testGraph()

	directOnly := Reconcile(graph, testOutdated(), direct, FilterDirect)
	require.Len(t, directOnly, 1)
	assert.Equal(t, "a", directOnly[0].Name)

	transitiveOnly := Reconcile(graph, testOutdated(), direct, FilterTransitive)
	require.Len(t, transitiveOnly, 1)
	assert.Equal(t, "b", transitiveOnly[0].Name)
}

func TestReconcileEmptyOutdated(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, map[string]models.OutdatedPkg{}, direct, FilterAll)
	assert.Empty(t, entries)
}

func TestFindDirectAncestors(t *testing.T) {
	graph, direct := testGraph()

	ancestors := FindDirectAncestors("b", graph, direct)
	assert.Equal(t, map[string]bool{"a": true}, ancestors)

	// A direct package's own name is not its ancestor.
	assert.Empty(t, FindDirectAncestors("a", graph, direct))

	// Unknown names have no ancestors and no panic.
	assert.Empty(t, FindDirectAncestors("ghost", graph, direct))
}

func TestFindDirectAncestorsMultiParent(t *testing.T) {
	shared := &models.Package{
		Name:    "shared",
		Version: "1.0",
		Dependents: []models.Dependent{
			{Through: "", Package: "left"},
			{Through: "", Package: "right"},
		},
	}
	graph := map[string]*models.Package{
		"shared": shared,
		"left":   {Name: "left", Version: "1.0"},
		"right":  {Name: "right", Version: "1.0"},
	}
	direct := map[string]models.Requirement{"left": {Name: "left"}, "right": {Name: "right"}}

	ancestors := FindDirectAncestors("shared", graph, direct)
	assert.Equal(t, map[string]bool{"left": true, "right": true}, ancestors)
}

func TestFindDirectAncestorsCycle(t *testing.T) {
	// x and y depend on each other; d is the direct dependency above x.
	x := &models.Package{Name: "x", Version: "1.0", Dependents: []models.Dependent{
		{Through: "", Package: "y"},
		{Through: "", Package: "d"},
	}}
	y := &models.Package{Name: "y", Version: "1.0", Dependents: []models.Dependent{
		{Through: "", Package: "x"},
	}}
	graph := map[string]*models.Package{
		"x": x,
		"y": y,
		"d": {Name: "d", Version: "1.0"},
	}
	direct := map[string]models.Requirement{"d": {Name: "d"}}

	ancestors := FindDirectAncestors("y", graph, direct)
	assert.Equal(t, map[string]bool{"d": true}, ancestors)

	// Every returned name must be in the direct set.
	for name := range ancestors {
		assert.Contains(t, direct, name)
	}
}

func TestGroupByDependencyGroup(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)

	groups := map[string]map[string]bool{
		"":    {"a": true},
		"dev": {"a": true},
	}
	buckets := GroupByDependencyGroup(entries, groups)

	// a is declared in both groups; b follows its dependent a into both.
	require.Contains(t, buckets, "")
	require.Contains(t, buckets, "dev")
	assert.Len(t, buckets[""], 2)
	assert.Len(t, buckets["dev"], 2)
}

func TestGroupByDependencyGroupDefaultsToMain(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)

	buckets := GroupByDependencyGroup(entries, map[string]map[string]bool{})
	require.Contains(t, buckets, "")
	assert.Len(t, buckets[""], 2)
}

func TestGroupByAncestor(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)

	groups := GroupByAncestor(entries, graph, direct)

	require.Contains(t, groups.Buckets, "a")
	names := make([]string, 0, len(groups.Buckets["a"]))
	for _, entry := range groups.Buckets["a"] {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
	assert.True(t, groups.HasTransitive["a"])
	assert.NotContains(t, groups.Buckets, UnknownAncestor)
}

func TestGroupByAncestorUnknown(t *testing.T) {
	// An orphan with no dependents ends up in the reserved bucket.
	orphan := &models.Package{Name: "orphan", Version: "0.1"}
	graph := map[string]*models.Package{"orphan": orphan}
	outdated := map[string]models.OutdatedPkg{
		"orphan": {Name: "orphan", Version: "0.1", LatestVersion: "0.2"},
	}

	entries := Reconcile(graph, outdated, nil, FilterAll)
	groups := GroupByAncestor(entries, graph, nil)

	require.Contains(t, groups.Buckets, UnknownAncestor)
	assert.Equal(t, "orphan", groups.Buckets[UnknownAncestor][0].Name)
	assert.Empty(t, groups.HasTransitive)
}

func TestEntryRow(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)
	specifiers := map[string]string{"b": ">=1.0,<1.1"}

	aRow := entries[0].Row(specifiers)
	assert.Equal(t, "a", aRow.Name)
	assert.Equal(t, "1.0", aRow.Current)
	assert.Equal(t, "2.0", aRow.Latest)
	assert.True(t, aRow.Direct)
	assert.Empty(t, aRow.Constraint)
	assert.Empty(t, aRow.Dependents, "direct packages show no dependents")

	bRow := entries[1].Row(specifiers)
	assert.False(t, bRow.Direct)
	assert.Equal(t, []string{"a"}, bRow.Dependents)
	assert.Equal(t, ">=1.0,<1.1", bRow.Constraint, "latest 1.1 is blocked by the recorded specifier")
}

func TestEntryRowUnblockedConstraintHidden(t *testing.T) {
	graph, direct := testGraph()
	entries := Reconcile(graph, testOutdated(), direct, FilterAll)

	// The specifier admits the latest version, so no constraint is shown.
	bRow := entries[1].Row(map[string]string{"b": ">=1.0"})
	assert.Empty(t, bRow.Constraint)
}

func TestGroupOrder(t *testing.T) {
	buckets := map[string][]Entry{
		"dev":   nil,
		"":      nil,
		"socks": nil,
		"lint":  nil,
	}
	assert.Equal(t, []string{"", "dev", "lint", "socks"}, GroupOrder(buckets))

	delete(buckets, "")
	assert.Equal(t, []string{"dev", "lint", "socks"}, GroupOrder(buckets))
}
