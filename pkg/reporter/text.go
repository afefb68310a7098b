package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/eflint/internal/ui/pretty"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/runner"
)

// TextReporter writes styled, human-readable diagnostics.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a text reporter. Color follows opts.Color and
// whether opts.Writer is a terminal.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	total := 0
	for _, outcome := range result.Files {
		total += r.writeFile(outcome)
	}

	if r.opts.ShowSummary {
		if r.opts.DetailedSummary {
			fmt.Fprint(r.bw, r.styles.SummaryBlock(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.SummaryLine(result.Stats))
		}
	}
	return total, nil
}

// writeFile writes one file's diagnostics, under a header when grouping,
// and returns how many it wrote.
func (r *TextReporter) writeFile(outcome runner.FileOutcome) int {
	path := r.opts.displayPath(outcome.Path)
	if outcome.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render("error: "+outcome.Error.Error()))
		return 0
	}
	if outcome.Result == nil || outcome.Result.FileResult == nil {
		return 0
	}

	fr := outcome.Result.FileResult
	var failures []*lint.HostQueryError
	if r.opts.ShowQueryErrors {
		failures = fr.QueryErrors
	}
	if len(fr.Diagnostics) == 0 && len(failures) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FileHeader(path, len(fr.Diagnostics)))
	}

	view := pretty.DiagnosticView{RuleFormat: r.opts.RuleFormat}
	for _, diag := range fr.Diagnostics {
		view.SourceLine = ""
		if r.opts.ShowContext && fr.Snapshot != nil {
			view.SourceLine = strings.TrimRight(string(fr.Snapshot.LineContent(diag.StartLine)), "\r\n")
		}
		diag.FilePath = path
		fmt.Fprint(r.bw, r.styles.Diagnostic(&diag, view))
	}

	for _, qe := range failures {
		fmt.Fprintf(r.bw, "  %s  %s  %s\n",
			r.styles.Location.Render(fmt.Sprintf("%s:%d", r.opts.displayPath(qe.Path), qe.Line)),
			r.styles.Dim.Render("skipped"),
			r.styles.Message.Render(qe.Err.Error()))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}
	return len(fr.Diagnostics)
}
