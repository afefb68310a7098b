// Package reporter renders a runner.Result as text, JSON, SARIF or a
// unified diff.
package reporter

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/eflint/pkg/runner"
)

// Reporter writes a run's results in one output format.
type Reporter interface {
	// Report returns how many items it wrote: diagnostics for most
	// formats, changed files for diffs.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New picks the Reporter for opts.Format. A nil Writer means stdout.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	var rep Reporter
	switch opts.Format {
	case FormatText, "":
		rep = NewTextReporter(opts)
	case FormatJSON:
		rep = NewJSONReporter(opts)
	case FormatSARIF:
		rep = NewSARIFReporter(opts)
	case FormatDiff:
		rep = NewDiffReporter(opts)
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return rep, nil
}
