package reporter

import (
	"github.com/pydeptools/uv-outdated/internal/models"
	"github.com/pydeptools/uv-outdated/internal/report"
)

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given check result
	Report(result *report.Result) ([]byte, error)
}

// Get returns a reporter for the configured format
func Get(config *models.Config) Reporter {
	switch config.OutputFormat {
	case "json":
		return &JSONReporter{}
	default:
		return &TerminalReporter{
			ShowHeaders:     config.ShowHeaders,
			ShowWhy:         config.ShowWhy,
			GroupByAncestor: config.GroupByAncestor,
		}
	}
}
