package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/yaklabco/eflint/internal/ui/pretty"
	"github.com/yaklabco/eflint/pkg/fix"
	"github.com/yaklabco/eflint/pkg/runner"
)

// DiffReporter prints the changes fixes made, or would make under
// --dry-run, as unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report writes a git-style diff for every file the fixes changed and
// returns how many files that was. Files that failed are listed with their
// error instead.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var changed, added, deleted int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.displayPath(file.Path)),
				r.styles.Error.Render("error: "+file.Error.Error()))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		d := file.Result.Diff
		changed++
		added += d.Additions
		deleted += d.Deletions
		r.writeFile(d)
	}

	if changed > 0 && r.opts.ShowSummary {
		fmt.Fprintln(r.out, r.summary(changed, added, deleted))
	}
	return changed, nil
}

func (r *DiffReporter) writeFile(d *fix.Diff) {
	shown := r.opts.displayPath(d.Path)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render("diff --git a/"+shown+" b/"+shown))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+shown))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+shown))

	for _, hunk := range d.File.Hunks {
		fmt.Fprintln(r.out, r.styles.DiffHunk.Render(hunkHeader(hunk)))
		body := strings.TrimSuffix(string(hunk.Body), "\n")
		for _, line := range strings.Split(body, "\n") {
			fmt.Fprintln(r.out, r.lineStyle(line).Render(line))
		}
	}
	fmt.Fprintln(r.out)
}

// lineStyle picks the style for a hunk line. Tabs are kept as they are so
// the output still applies as a patch.
func (r *DiffReporter) lineStyle(line string) lipgloss.Style {
	style := r.styles.DiffContext
	switch {
	case strings.HasPrefix(line, "+"):
		style = r.styles.DiffAdd
	case strings.HasPrefix(line, "-"):
		style = r.styles.DiffRemove
	}
	return style.TabWidth(lipgloss.NoTabConversion)
}

// hunkHeader renders the "@@ -l,s +l,s @@" line of a hunk.
func hunkHeader(h *godiff.Hunk) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines)
	if h.Section != "" {
		header += " " + h.Section
	}
	return header
}

// summary renders "N files changed, A insertions(+), D deletions(-)".
func (r *DiffReporter) summary(files, added, deleted int) string {
	parts := []string{plural(files, "file", "files") + " changed"}
	if added > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(plural(added, "insertion", "insertions")+"(+)"))
	}
	if deleted > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(plural(deleted, "deletion", "deletions")+"(-)"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
