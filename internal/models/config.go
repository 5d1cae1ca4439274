package models

import "time"

// Config holds configuration for one check run
type Config struct {
	// ProjectDir is the directory holding pyproject.toml and uv.lock
	ProjectDir string

	// Output settings
	OutputFormat string // "terminal", "json"
	OutputFile   string // Optional output file path
	ShowHeaders  bool   // Show table headers in terminal output
	ShowWhy      bool   // Show constraint and dependents columns

	// Filtering and grouping
	DirectOnly      bool // Show only direct dependencies
	TransitiveOnly  bool // Show only transitive dependencies
	GroupByAncestor bool // Group transitive packages under their direct ancestor

	// Cache settings for the resolver output
	CacheTTL time.Duration
	NoCache  bool

	// UV is the resolver binary to invoke
	UV string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ProjectDir:   ".",
		OutputFormat: "terminal",
		ShowWhy:      true,
		CacheTTL:     time.Hour,
		UV:           "uv",
	}
}
