// Package sitepackages reads installed-distribution metadata out of a
// Python environment's site-packages directory. Everything here is
// best-effort: the environment may not exist at all, and callers fall back
// to lockfile-only information when it does not.
package sitepackages

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/pep440"
)

// Locate derives the site-packages directory from a venv's python binary
// path, reading the interpreter version out of pyvenv.cfg.
func Locate(pythonPath string) (string, error) {
	venvDir := filepath.Dir(filepath.Dir(pythonPath))

	version, err := venvVersion(filepath.Join(venvDir, "pyvenv.cfg"))
	if err != nil {
		return "", err
	}

	parts := strings.Split(version, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	dir := filepath.Join(venvDir, "lib", "python"+strings.Join(parts, "."), "site-packages")

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("site-packages not found at %s", dir)
	}
	return dir, nil
}

func venvVersion(cfgPath string) (string, error) {
	f, err := os.Open(cfgPath)
	if err != nil {
		return "", fmt.Errorf("failed to open pyvenv.cfg: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "version") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		return strings.TrimSpace(value), nil
	}
	return "", fmt.Errorf("no version entry in %s", cfgPath)
}

// Discover parses every *.dist-info/METADATA file under dir and returns the
// result keyed by canonical package name. Individual unreadable entries are
// skipped rather than failing the whole scan.
func Discover(dir string) (map[string]models.DistMetadata, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.dist-info"))
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]models.DistMetadata, len(matches))
	for _, distInfo := range matches {
		data, err := os.ReadFile(filepath.Join(distInfo, "METADATA"))
		if err != nil {
			log.Debug("sitepackages: skipping %s: %v", distInfo, err)
			continue
		}
		m := parseMetadata(data)
		if m.Name == "" {
			continue
		}
		metadata[m.Name] = m
	}
	return metadata, nil
}

// parseMetadata reads the RFC 822 style header block of a METADATA file.
// The body after the first blank line is the long description and is
// ignored.
func parseMetadata(data []byte) models.DistMetadata {
	var m models.DistMetadata

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			m.Name = pep440.Canonicalize(value)
		case "Version":
			m.Version = value
		case "Summary":
			m.Summary = value
		case "Requires-Dist":
			m.RequiresDist = append(m.RequiresDist, value)
		case "Provides-Extra":
			m.ProvidesExtra = append(m.ProvidesExtra, pep440.Canonicalize(value))
		}
	}
	return m
}
