package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/eflint/pkg/runner"
)

const summaryRuleWidth = 40

// SummaryLine renders the one-line run summary, for example
//
//	3 issues (1 error, 2 warnings) in 2 files, 3 fixable
func (s *Styles) SummaryLine(stats runner.Stats) string {
	fixed := ""
	if stats.FixesApplied > 0 {
		fixed = s.Success.Render(fmt.Sprintf("%d fixed in %s",
			stats.FixesApplied, count(stats.FilesModified, "file", "files")))
	}

	if stats.DiagnosticsTotal == 0 {
		line := s.Success.Render("No issues found") +
			s.Dim.Render(" ("+count(stats.FilesProcessed, "file", "files")+" checked)")
		if fixed != "" {
			line += ", " + fixed
		}
		return line + "\n"
	}

	head := count(stats.DiagnosticsTotal, "issue", "issues")
	var bySeverity []string
	for _, sev := range s.severityCounts(stats) {
		bySeverity = append(bySeverity, sev.style.Render(count(sev.n, sev.one, sev.many)))
	}
	if len(bySeverity) > 0 {
		head += " (" + strings.Join(bySeverity, ", ") + ")"
	}

	parts := []string{head + " in " + count(stats.FilesWithIssues, "file", "files")}
	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(strconv.Itoa(stats.DiagnosticsFixable)+" fixable"))
	}
	if fixed != "" {
		parts = append(parts, fixed)
	}
	return strings.Join(parts, ", ") + "\n"
}

// SummaryBlock renders the multi-line summary printed with --stats. Rows
// with a zero count are left out, except the two totals.
func (s *Styles) SummaryBlock(stats runner.Stats) string {
	var b strings.Builder
	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryRuleWidth) + "\n")

	row := func(indent, label string, n int, style lipgloss.Style, always bool) {
		if n == 0 && !always {
			return
		}
		fmt.Fprintf(&b, "%s%-*s%s\n", indent, 21-len(indent), label+":", style.Render(strconv.Itoa(n)))
	}

	row("  ", "Files checked", stats.FilesProcessed, s.SummaryValue, true)
	row("  ", "Files with issues", stats.FilesWithIssues, s.Failure, false)
	row("  ", "Files ignored", stats.FilesIgnored, s.Dim, false)
	row("  ", "Files modified", stats.FilesModified, s.Success, false)
	b.WriteString("\n")

	row("  ", "Total issues", stats.DiagnosticsTotal, s.SummaryValue, true)
	for _, sev := range s.severityCounts(stats) {
		row("    ", sev.label, sev.n, sev.style, false)
	}
	row("  ", "Query failures", stats.QueryFailures, s.Warning, false)
	b.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity["error"] > 0:
		b.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.DiagnosticsBySeverity["warning"] > 0:
		b.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Lint passed"))
	}
	b.WriteString("\n")

	return b.String()
}

type severityCount struct {
	label     string
	one, many string
	n         int
	style     lipgloss.Style
}

// severityCounts returns the non-zero per-severity counts, most severe first.
func (s *Styles) severityCounts(stats runner.Stats) []severityCount {
	all := []severityCount{
		{"Errors", "error", "errors", stats.DiagnosticsBySeverity["error"], s.Error},
		{"Warnings", "warning", "warnings", stats.DiagnosticsBySeverity["warning"], s.Warning},
		{"Info", "info", "info", stats.DiagnosticsBySeverity["info"], s.Info},
	}
	out := all[:0]
	for _, c := range all {
		if c.n > 0 {
			out = append(out, c)
		}
	}
	return out
}

func count(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
