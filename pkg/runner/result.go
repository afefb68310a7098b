package runner

import "github.com/yaklabco/eflint/pkg/lint"

// FileOutcome is what happened to one linted file. Exactly one of Result
// and Error is set.
type FileOutcome struct {
	Path   string
	Result *lint.PipelineResult
	Error  error
}

// Stats are the run totals shown in summaries.
type Stats struct {
	// Discovery and indexing.
	FilesDiscovered int
	FilesIgnored    int // vendored or generated: indexed, not linted
	TypesIndexed    int

	// Per-file outcomes.
	FilesProcessed  int
	FilesWithIssues int
	FilesSkipped    int // fixes dropped because the file changed on disk
	FilesErrored    int
	FilesModified   int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[string]int
	QueryFailures         int
	FixesApplied          int
}

// Result is everything a run produced. Files are in discovery order.
type Result struct {
	Files  []FileOutcome
	Stats  Stats
	Errors []error // failures not tied to one file
}

// HasIssues reports whether any diagnostic was reported.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether a file or the run itself failed.
func (r *Result) HasErrors() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || len(r.Errors) > 0)
}

func (r *Result) add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	s := &r.Stats
	pr := outcome.Result
	switch {
	case outcome.Error != nil:
		s.FilesErrored++
		return
	case pr == nil:
		return
	}

	s.FilesProcessed++
	s.FixesApplied += pr.FixesApplied
	if pr.Skipped {
		s.FilesSkipped++
	}
	if pr.Written {
		s.FilesModified++
	}
	if pr.FileResult == nil {
		return
	}

	if len(pr.Diagnostics) > 0 {
		s.FilesWithIssues++
	}
	s.DiagnosticsTotal += len(pr.Diagnostics)
	s.DiagnosticsFixable += pr.FixableCount()
	s.QueryFailures += len(pr.QueryErrors)

	if s.DiagnosticsBySeverity == nil {
		s.DiagnosticsBySeverity = make(map[string]int)
	}
	for _, d := range pr.Diagnostics {
		sev := string(d.Severity)
		if sev == "" {
			sev = "warning"
		}
		s.DiagnosticsBySeverity[sev]++
	}
}
