package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

const (
	contextIndent = "        "
	tabWidth      = 4
)

// DiagnosticView selects the optional parts of a rendered diagnostic.
type DiagnosticView struct {
	RuleFormat config.RuleFormat

	// SourceLine is the text of the diagnostic's first line. Empty hides the
	// source context.
	SourceLine string
}

// Diagnostic renders one diagnostic as
//
//	path:line:col  severity  message  (rule) [fixable]
//
// followed by the underlined source line and the suggestion, when present.
func (s *Styles) Diagnostic(diag *lint.Diagnostic, view DiagnosticView) string {
	var b strings.Builder

	rule := s.RuleID.Render("(" + view.RuleFormat.Label(diag.RuleID, diag.RuleName) + ")")
	if diag.Fixable {
		rule += " " + s.Fixable.Render("[fixable]")
	}

	fmt.Fprintf(&b, "  %s:%d:%d  %s  %s  %s\n",
		s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn,
		s.Severity(diag.Severity),
		s.Message.Render(diag.Message),
		rule,
	)

	if view.SourceLine != "" {
		endColumn := 0
		if diag.EndLine == diag.StartLine {
			endColumn = diag.EndColumn
		}
		b.WriteString(s.SourceContext(view.SourceLine, diag.StartColumn, endColumn))
	}

	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return b.String()
}

// Severity renders a severity name in its color.
func (s *Styles) Severity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render(string(sev))
	case config.SeverityWarning:
		return s.Warning.Render(string(sev))
	case config.SeverityInfo:
		return s.Info.Render(string(sev))
	default:
		return string(sev)
	}
}

// SourceContext renders line with the byte columns [start, end) underlined.
// An end at or before start marks start alone; start <= 0 omits the marker.
// Tabs are expanded so the marker lines up in a terminal.
func (s *Styles) SourceContext(line string, start, end int) string {
	expanded := expandTabs(line)
	out := contextIndent + s.SourceLine.Render(expanded) + "\n"
	if start <= 0 {
		return out
	}

	from := visualWidth(line, start-1)
	width := 1
	if end > start {
		width = max(visualWidth(line, end-1)-from, 1)
	}

	marker := "^" + strings.Repeat("~", width-1)
	return out + contextIndent + strings.Repeat(" ", from) + s.Caret.Render(marker) + "\n"
}

// FileHeader renders the heading of a file's group of diagnostics.
func (s *Styles) FileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// visualWidth is the display width of the first n bytes of line after tab
// expansion.
func visualWidth(line string, n int) int {
	n = min(max(n, 0), len(line))
	return len([]rune(expandTabs(line[:n])))
}
