package reporter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pydeptools/uv-outdated/internal/report"
)

// TerminalReporter renders the result as a plain-text table, with one
// section per dependency group and optional nesting of transitive packages
// under their direct ancestor.
type TerminalReporter struct {
	ShowHeaders     bool
	ShowWhy         bool
	GroupByAncestor bool
}

// Report generates terminal output for the given check result
func (r *TerminalReporter) Report(result *report.Result) ([]byte, error) {
	if len(result.Entries) == 0 {
		return []byte(r.emptySummary(result)), nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)

	if r.ShowHeaders {
		if r.ShowWhy {
			r.writeColumns(w, "Package", "Current", "Latest", "Constraint", "Dependents", "Description")
		} else {
			r.writeColumns(w, "Package", "Current", "Latest", "Description")
		}
	}

	for _, group := range report.GroupOrder(result.Groups) {
		entries := result.Groups[group]
		if len(entries) == 0 {
			continue
		}
		if group != "" {
			fmt.Fprintf(w, "[group:%s]\n", group)
		}
		if r.GroupByAncestor {
			r.writeAncestorRows(w, entries, result)
		} else {
			for _, entry := range entries {
				r.writeRow(w, entry.Row(result.Specifiers), "")
			}
		}
	}

	w.Flush()
	return buf.Bytes(), nil
}

func (r *TerminalReporter) emptySummary(result *report.Result) string {
	var sb strings.Builder
	sb.WriteString("No outdated packages found.\n")
	if result.TotalChecked == 0 {
		sb.WriteString("Note: could not check for outdated packages (no virtual environment).\n")
		sb.WriteString(fmt.Sprintf("Total packages in uv.lock: %d\n", result.TotalLocked))
	} else {
		sb.WriteString(fmt.Sprintf("Total packages: %d\n", result.TotalLocked))
		sb.WriteString(fmt.Sprintf("Checked %d packages for updates\n", result.TotalChecked))
	}
	return sb.String()
}

// writeAncestorRows renders one dependency-group section with transitive
// packages nested under the direct dependency that pulls them in.
func (r *TerminalReporter) writeAncestorRows(w *tabwriter.Writer, entries []report.Entry, result *report.Result) {
	groups := report.GroupByAncestor(entries, result.Graph, result.Direct)

	keys := make([]string, 0, len(groups.Buckets))
	for key := range groups.Buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		members := groups.Buckets[key]

		if key == report.UnknownAncestor {
			fmt.Fprintln(w, "(unknown ancestor)")
			for _, entry := range members {
				r.writeRow(w, entry.Row(result.Specifiers), "  ")
			}
			continue
		}

		if !groups.HasTransitive[key] {
			// A direct dependency with no outdated transitive members is a
			// lone row, not a section.
			r.writeRow(w, members[0].Row(result.Specifiers), "")
			continue
		}

		headerWritten := false
		for _, entry := range members {
			if entry.Direct {
				r.writeRow(w, entry.Row(result.Specifiers), "")
				headerWritten = true
				break
			}
		}
		if !headerWritten {
			fmt.Fprintln(w, key)
		}
		for _, entry := range members {
			if !entry.Direct {
				r.writeRow(w, entry.Row(result.Specifiers), "  ")
			}
		}
	}
}

func (r *TerminalReporter) writeRow(w *tabwriter.Writer, row report.Row, indent string) {
	if r.ShowWhy {
		r.writeColumns(w, indent+row.Name, row.Current, row.Latest, row.Constraint, strings.Join(row.Dependents, ", "), row.Summary)
	} else {
		r.writeColumns(w, indent+row.Name, row.Current, row.Latest, row.Summary)
	}
}

func (r *TerminalReporter) writeColumns(w *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}
