// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mhe931/jobflow/internal/analyzer"
	"github.com/mhe931/jobflow/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of the resume analysis.
func (p *Printer) PrintAnalysis(analysis *analyzer.Analysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Seniority:  %s\n", analysis.Seniority))
	sb.WriteString("\n")

	if len(analysis.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(analysis.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Skills[i]))
		}
		if len(analysis.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Skills)-maxItemsToShow))
		}
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatrix outputs the proposed search matrix of hubs and titles.
func (p *Printer) PrintMatrix(matrix *analyzer.Matrix) {
	if matrix == nil {
		return
	}

	var sb strings.Builder

	if len(matrix.Titles) > 0 {
		sb.WriteString("Titles:\n")
		for _, title := range matrix.Titles {
			sb.WriteString(fmt.Sprintf("  • %s\n", title))
		}
		sb.WriteString("\n")
	}

	if len(matrix.Hubs) > 0 {
		sb.WriteString("Hubs:\n")
		for _, hub := range matrix.Hubs {
			sb.WriteString(fmt.Sprintf("  • %s\n", hub))
		}
	}

	p.printBox("PROPOSED SEARCH MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintParameters outputs the strategic parameters a discovery run will use.
func (p *Printer) PrintParameters(params types.StrategicParameters) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Titles:    %s\n", joinOrDash(params.Titles)))
	sb.WriteString(fmt.Sprintf("Hubs:      %s\n", joinOrDash(params.Hubs)))
	sb.WriteString(fmt.Sprintf("Keywords:  %s", joinOrDash(params.Keywords)))

	p.printBox("STRATEGIC PARAMETERS", sb.String())
}

// PrintResults outputs discovered results in display order with both scores,
// salary provenance and a ghost marker.
func (p *Printer) PrintResults(results []types.ResultRecord) {
	if len(results) == 0 {
		p.printBox("DISCOVERED RESULTS", "No results.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total results: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		marker := ""
		if r.GhostJob {
			marker = " ⚠ ghost"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s — %s (%s)%s\n", i+1, r.Role, r.Company, r.Hub, marker))
		sb.WriteString(fmt.Sprintf("    Match: %.0f  Hire: %.0f\n", r.MatchScore, r.HireProbability))
		if r.SalaryRange != "" {
			if r.SalaryVerified {
				sb.WriteString(fmt.Sprintf("    Salary: %s (stated)\n", r.SalaryRange))
			} else {
				sb.WriteString(fmt.Sprintf("    Salary: %s (inferred, %.0f%%)\n", r.SalaryRange, r.SalaryConfidence))
			}
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(results)-maxItemsToShow))
	}

	p.printBox("DISCOVERED RESULTS", sb.String())
}

// PrintSession outputs a session header followed by its results.
func (p *Printer) PrintSession(session *types.SearchSession) {
	if session == nil {
		return
	}

	created := time.UnixMilli(session.CreatedAt).Format(time.RFC3339)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session:  %s\n", session.ID))
	sb.WriteString(fmt.Sprintf("Created:  %s\n", created))
	sb.WriteString(fmt.Sprintf("Titles:   %s\n", joinOrDash(session.Parameters.Titles)))
	sb.WriteString(fmt.Sprintf("Hubs:     %s", joinOrDash(session.Parameters.Hubs)))

	p.printBox("SEARCH SESSION", sb.String())
	p.PrintResults(session.Results)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	return strings.Join(items, ", ")
}
