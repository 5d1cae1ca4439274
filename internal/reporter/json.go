package reporter

import (
	"encoding/json"

	"github.com/pydeptools/uv-outdated/internal/report"
)

// JSONReporter outputs the check result in JSON format
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	Summary   jsonSummary         `json:"summary"`
	Packages  []report.Row        `json:"packages"`
	Groups    map[string][]string `json:"groups"`
	Ancestors map[string][]string `json:"ancestors,omitempty"`
}

type jsonSummary struct {
	TotalLocked   int `json:"total_locked"`
	TotalChecked  int `json:"total_checked"`
	TotalOutdated int `json:"total_outdated"`
}

// Report generates JSON output for the given check result
func (r *JSONReporter) Report(result *report.Result) ([]byte, error) {
	output := jsonOutput{
		Summary: jsonSummary{
			TotalLocked:   result.TotalLocked,
			TotalChecked:  result.TotalChecked,
			TotalOutdated: len(result.Entries),
		},
		Packages: make([]report.Row, 0, len(result.Entries)),
		Groups:   make(map[string][]string, len(result.Groups)),
	}

	for _, entry := range result.Entries {
		output.Packages = append(output.Packages, entry.Row(result.Specifiers))
	}
	for group, entries := range result.Groups {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name)
		}
		output.Groups[group] = names
	}
	if result.Ancestors != nil {
		output.Ancestors = make(map[string][]string, len(result.Ancestors.Buckets))
		for ancestor, entries := range result.Ancestors.Buckets {
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				names = append(names, entry.Name)
			}
			output.Ancestors[ancestor] = names
		}
	}

	return json.MarshalIndent(output, "", "  ")
}
