// Package uvcli invokes the uv binary: the resolver collaborator that knows
// which installed packages have newer versions available, and the locator
// for the project's Python environment.
package uvcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pydeptools/uv-outdated/internal/cache"
	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/pep440"
)

// Client runs uv subprocesses with a consistent environment.
type Client struct {
	// Path is the uv binary to execute.
	Path string

	// Dir is the working directory for invocations (the project dir).
	Dir string

	// Cache, when set, memoizes the outdated report between runs.
	Cache *cache.Cache
}

// New creates a client for the given project directory.
func New(path, dir string, c *cache.Cache) *Client {
	if path == "" {
		path = "uv"
	}
	return &Client{Path: path, Dir: dir, Cache: c}
}

// Run executes uv with the given arguments and returns its stdout. The
// VIRTUAL_ENV variable is cleared so uv resolves the project environment
// itself.
func (c *Client) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), "VIRTUAL_ENV=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("uv %s: %w (%s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Outdated returns the resolver's outdated report keyed by canonical name.
// Failures are recovered locally: a missing binary, a nonzero exit (for
// example when no environment exists), or malformed output all produce an
// empty map, never an error. The tool still reports lockfile contents in
// that case.
func (c *Client) Outdated(ctx context.Context) map[string]models.OutdatedPkg {
	cacheKey := "uv-pip-outdated:" + c.Dir

	if c.Cache != nil {
		if data, ok := c.Cache.Get(cacheKey); ok {
			if outdated, err := decodeOutdated(data); err == nil {
				return outdated
			}
		}
	}

	data, err := c.Run(ctx, "pip", "list", "--outdated", "--format=json")
	if err != nil {
		log.Debug("uvcli: outdated check unavailable: %v", err)
		return map[string]models.OutdatedPkg{}
	}

	outdated, err := decodeOutdated(data)
	if err != nil {
		log.Debug("uvcli: unparseable outdated output: %v", err)
		return map[string]models.OutdatedPkg{}
	}

	if c.Cache != nil {
		if err := c.Cache.Set(cacheKey, data); err != nil {
			log.Debug("uvcli: failed to cache outdated report: %v", err)
		}
	}
	return outdated
}

func decodeOutdated(data []byte) (map[string]models.OutdatedPkg, error) {
	var pkgs []models.OutdatedPkg
	if err := json.Unmarshal(data, &pkgs); err != nil {
		return nil, err
	}
	outdated := make(map[string]models.OutdatedPkg, len(pkgs))
	for _, pkg := range pkgs {
		outdated[pep440.Canonicalize(pkg.Name)] = pkg
	}
	return outdated, nil
}

// FindPython returns the path of the project's Python interpreter.
func (c *Client) FindPython(ctx context.Context) (string, error) {
	out, err := c.Run(ctx, "python", "find")
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("uv python find returned no path")
	}
	return path, nil
}
