// Package check wires the collaborators into the one-shot pipeline:
// manifest + lockfile in, grouped outdated report out.
package check

import (
	"context"
	"path/filepath"

	"github.com/pydeptools/uv-outdated/internal/cache"
	"github.com/pydeptools/uv-outdated/internal/lockfile"
	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/manifest"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/report"
	"github.com/pydeptools/uv-outdated/internal/sitepackages"
	"github.com/pydeptools/uv-outdated/internal/uvcli"
)

// Checker orchestrates one check run.
type Checker struct {
	config *models.Config
	uv     *uvcli.Client
}

// New creates a Checker with the given configuration
func New(config *models.Config) *Checker {
	var c *cache.Cache
	if !config.NoCache {
		var err error
		c, err = cache.New("uv-outdated", config.CacheTTL)
		if err != nil {
			// Non-fatal: continue without cache
			c = nil
		}
	}

	return &Checker{
		config: config,
		uv:     uvcli.New(config.UV, config.ProjectDir, c),
	}
}

// Run builds the package graph and reconciles it against the resolver's
// outdated report. Only a missing or malformed lockfile/manifest is fatal;
// every other collaborator failure degrades to a smaller result.
func (c *Checker) Run(ctx context.Context) (*report.Result, error) {
	lock, err := lockfile.Load(filepath.Join(c.config.ProjectDir, "uv.lock"))
	if err != nil {
		return nil, err
	}

	man, err := manifest.Load(filepath.Join(c.config.ProjectDir, "pyproject.toml"))
	if err != nil {
		return nil, err
	}

	meta := c.discoverMetadata(ctx)

	graph := lock.Graph(meta)
	specifiers := lock.Specifiers(meta)
	outdated := c.uv.Outdated(ctx)

	filter := report.FilterAll
	switch {
	case c.config.DirectOnly:
		filter = report.FilterDirect
	case c.config.TransitiveOnly:
		filter = report.FilterTransitive
	}

	entries := report.Reconcile(graph, outdated, man.Direct, filter)

	result := &report.Result{
		Entries:      entries,
		Groups:       report.GroupByDependencyGroup(entries, man.Groups),
		Graph:        graph,
		Direct:       man.Direct,
		Specifiers:   specifiers,
		TotalLocked:  len(graph),
		TotalChecked: len(outdated),
	}
	if c.config.GroupByAncestor {
		result.Ancestors = report.GroupByAncestor(entries, graph, man.Direct)
	}
	return result, nil
}

// discoverMetadata locates the project environment and reads its installed
// metadata. Any failure along the way means summaries stay empty and
// requirement strings fall back to bare names; never fatal.
func (c *Checker) discoverMetadata(ctx context.Context) map[string]models.DistMetadata {
	python, err := c.uv.FindPython(ctx)
	if err != nil {
		log.Debug("check: no project interpreter: %v", err)
		return nil
	}
	dir, err := sitepackages.Locate(python)
	if err != nil {
		log.Debug("check: %v", err)
		return nil
	}
	meta, err := sitepackages.Discover(dir)
	if err != nil {
		log.Debug("check: metadata scan failed: %v", err)
		return nil
	}
	return meta
}
