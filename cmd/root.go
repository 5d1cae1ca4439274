package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pydeptools/uv-outdated/internal/check"
	"github.com/pydeptools/uv-outdated/internal/log"
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/reporter"
	"github.com/spf13/cobra"
)

var (
	flagProject     string
	flagOutput      string
	flagFormat      string
	flagShowHeaders bool
	flagNoWhy       bool
	flagDirect      bool
	flagTransitive  bool
	flagByAncestor  bool
	flagNoCache     bool
	flagCacheTTL    int
	flagVerbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "uv-outdated",
	Short: "Show outdated packages in a uv-managed project",
	Long: `uv-outdated reports outdated dependencies for a project locked with uv.

It parses uv.lock into a package graph, overlays installed-package metadata
from the project's virtual environment, and cross-references the result
against 'uv pip list --outdated'. Each outdated package is classified as
direct (declared in pyproject.toml) or transitive, annotated with the
version constraint that blocks an upgrade (if any) and the packages that
depend on it, then grouped by dependency group.

Examples:
  # Report all outdated packages in the current project
  uv-outdated

  # Only direct dependencies, with table headers
  uv-outdated --direct --show-headers

  # Nest transitive packages under the direct dependency pulling them in
  uv-outdated --group-by-ancestor

  # Machine-readable output
  uv-outdated --format json --output outdated.json`,
	RunE: runCheck,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagProject, "project", "p", ".", "Project directory containing pyproject.toml and uv.lock")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json")
	rootCmd.Flags().BoolVar(&flagShowHeaders, "show-headers", false, "Show table headers")
	rootCmd.Flags().BoolVar(&flagNoWhy, "no-why", false, "Hide the constraint and dependents columns")
	rootCmd.Flags().BoolVar(&flagDirect, "direct", false, "Show only direct dependencies")
	rootCmd.Flags().BoolVar(&flagTransitive, "transitive", false, "Show only transitive dependencies")
	rootCmd.Flags().BoolVar(&flagByAncestor, "group-by-ancestor", false, "Group outdated packages by their direct dependency ancestor")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable caching of the resolver output")
	rootCmd.Flags().IntVar(&flagCacheTTL, "cache-ttl", 60, "Resolver cache time-to-live in minutes")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("direct", "transitive")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.LevelDebug)
	}

	config := &models.Config{
		ProjectDir:      flagProject,
		OutputFormat:    flagFormat,
		OutputFile:      flagOutput,
		ShowHeaders:     flagShowHeaders,
		ShowWhy:         !flagNoWhy,
		DirectOnly:      flagDirect,
		TransitiveOnly:  flagTransitive,
		GroupByAncestor: flagByAncestor,
		NoCache:         flagNoCache,
		CacheTTL:        time.Duration(flagCacheTTL) * time.Minute,
		UV:              "uv",
	}

	c := check.New(config)

	result, err := c.Run(context.Background())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	rep := reporter.Get(config)
	output, err := rep.Report(result)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", config.OutputFile)
	} else {
		fmt.Print(string(output))
	}

	return nil
}
