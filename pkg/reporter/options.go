package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/eflint/pkg/config"
)

const bufWriterSize = 64 << 10

// Options configures every reporter. Fields a format has no use for are
// ignored: JSON has no color and SARIF has no summary.
type Options struct {
	Writer      io.Writer
	ErrorWriter io.Writer
	Format      Format

	// Color is "auto", "always" or "never".
	Color string

	ShowContext     bool // echo the offending source line
	ShowSummary     bool
	DetailedSummary bool // statistics block instead of one line
	GroupByFile     bool
	ShowQueryErrors bool // list symbol queries the model could not answer
	Compact         bool // single-line JSON and SARIF

	RuleFormat config.RuleFormat

	// WorkingDir anchors relative display paths. Empty means the process
	// working directory.
	WorkingDir string

	// ToolVersion is the SARIF driver version; "dev" when empty.
	ToolVersion string
}

// DefaultOptions returns text output to stdout with context and a summary.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatName,
	}
}

// displayPath shortens an absolute path to one relative to WorkingDir,
// falling back to the base name when that would climb more than two
// directories.
func (o Options) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}

	base := o.WorkingDir
	if base == "" {
		var err error
		if base, err = os.Getwd(); err != nil {
			return filepath.Base(path)
		}
	}

	rel, err := filepath.Rel(base, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
