package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the document written by the JSON reporter.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult is one linted file.
type JSONFileResult struct {
	Path         string           `json:"path"`
	Diagnostics  []JSONDiagnostic `json:"diagnostics"`
	QueryErrors  []JSONQueryError `json:"queryErrors,omitempty"`
	Modified     bool             `json:"modified,omitempty"`
	FixesApplied int              `json:"fixesApplied,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// JSONDiagnostic carries both offsets and line/column positions so editors
// can use whichever they index by.
type JSONDiagnostic struct {
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Method      string `json:"method,omitempty"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Suggestion  string `json:"suggestion,omitempty"`
	Fixable     bool   `json:"fixable"`
}

// JSONQueryError is a symbol query the semantic model could not answer.
type JSONQueryError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// JSONSummary mirrors runner.Stats.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesIgnored    int            `json:"filesIgnored"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesModified   int            `json:"filesModified"`
	FilesErrored    int            `json:"filesErrored"`
	TypesIndexed    int            `json:"typesIndexed"`
	TotalIssues     int            `json:"totalIssues"`
	Fixable         int            `json:"fixable"`
	FixesApplied    int            `json:"fixesApplied"`
	QueryFailures   int            `json:"queryFailures"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter writes one JSON document per run.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	doc := JSONOutput{
		Version: jsonSchemaVersion,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{BySeverity: map[string]int{}},
	}
	if result != nil {
		for _, outcome := range result.Files {
			doc.Files = append(doc.Files, r.file(outcome))
		}
		doc.Summary = summarize(result)
	}

	enc := json.NewEncoder(r.opts.Writer)
	enc.SetEscapeHTML(false)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return doc.Summary.TotalIssues, nil
}

func (r *JSONReporter) file(outcome runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:        r.opts.displayPath(outcome.Path),
		Diagnostics: []JSONDiagnostic{},
	}
	if outcome.Error != nil {
		out.Error = outcome.Error.Error()
		return out
	}

	pr := outcome.Result
	if pr == nil {
		return out
	}
	out.Modified = pr.Written
	out.FixesApplied = pr.FixesApplied
	if pr.FileResult == nil {
		return out
	}

	for _, d := range pr.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, jsonDiagnostic(d))
	}
	for _, qe := range pr.QueryErrors {
		out.QueryErrors = append(out.QueryErrors, JSONQueryError{Line: qe.Line, Message: qe.Err.Error()})
	}
	return out
}

func summarize(result *runner.Result) JSONSummary {
	s := result.Stats
	bySeverity := maps.Clone(s.DiagnosticsBySeverity)
	if bySeverity == nil {
		bySeverity = map[string]int{}
	}
	return JSONSummary{
		FilesChecked:    len(result.Files),
		FilesIgnored:    s.FilesIgnored,
		FilesWithIssues: s.FilesWithIssues,
		FilesModified:   s.FilesModified,
		FilesErrored:    s.FilesErrored,
		TypesIndexed:    s.TypesIndexed,
		TotalIssues:     s.DiagnosticsTotal,
		Fixable:         s.DiagnosticsFixable,
		FixesApplied:    s.FixesApplied,
		QueryFailures:   s.QueryFailures,
		BySeverity:      bySeverity,
	}
}

func jsonDiagnostic(d lint.Diagnostic) JSONDiagnostic {
	return JSONDiagnostic{
		RuleID:      d.RuleID,
		RuleName:    d.RuleName,
		Severity:    string(d.Severity),
		Message:     d.Message,
		Method:      d.MethodName,
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
		StartOffset: d.StartOffset,
		EndOffset:   d.EndOffset,
		Suggestion:  d.Suggestion,
		Fixable:     d.Fixable,
	}
}
