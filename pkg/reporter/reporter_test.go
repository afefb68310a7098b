package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/fix"
	"github.com/yaklabco/eflint/pkg/lint"
	_ "github.com/yaklabco/eflint/pkg/lint/rules"
	"github.com/yaklabco/eflint/pkg/reporter"
	"github.com/yaklabco/eflint/pkg/runner"
)

const reportSource = "using System.Linq;\n" +
	"class Report {\n" +
	"\tvoid Run(ShopContext db, int page) {\n" +
	"\t\tvar q = db.Salesmen.Include(\"Orders\").Skip(page * 10);\n" +
	"\t}\n" +
	"}\n"

const workDir = "/src/shop"

func reportPath() string {
	return filepath.Join(workDir, "Data", "Report.cs")
}

func sampleResult() *runner.Result {
	path := reportPath()
	snapshot := csast.NewFileSnapshot(path, []byte(reportSource))

	diags := []lint.Diagnostic{
		{
			RuleID:      "EF1000",
			RuleName:    "include-string-path",
			Message:     `Include path "Orders" should be a lambda expression`,
			Severity:    config.SeverityWarning,
			FilePath:    path,
			StartLine:   4,
			StartColumn: 23,
			EndLine:     4,
			EndColumn:   40,
			StartOffset: 80,
			EndOffset:   97,
			MethodName:  "Include",
			Fixable:     true,
		},
		{
			RuleID:      "EF1002",
			RuleName:    "pagination-argument",
			Message:     "Use the lambda overload of Skip so the value is parameterized",
			Severity:    config.SeverityError,
			FilePath:    path,
			StartLine:   4,
			StartColumn: 41,
			EndLine:     4,
			EndColumn:   56,
			StartOffset: 98,
			EndOffset:   113,
			MethodName:  "Skip",
		},
	}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: path,
				Result: &lint.PipelineResult{
					Path: path,
					FileResult: &lint.FileResult{
						Snapshot:    snapshot,
						Diagnostics: diags,
						QueryErrors: []*lint.HostQueryError{
							{Path: path, Line: 4, Err: errors.New("no type for db")},
						},
					},
				},
			},
			{
				Path:  filepath.Join(workDir, "Broken.cs"),
				Error: errors.New("permission denied"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:       3,
			FilesIgnored:          1,
			TypesIndexed:          7,
			FilesProcessed:        1,
			FilesErrored:          1,
			FilesWithIssues:       1,
			DiagnosticsTotal:      2,
			DiagnosticsFixable:    1,
			QueryFailures:         1,
			DiagnosticsBySeverity: map[string]int{"warning": 1, "error": 1},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "table is gone", input: "table", wantErr: true},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSARIF, true},
		{reporter.FormatDiff, true},
		{reporter.Format("summary"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "sarif reporter", format: reporter.FormatSARIF},
		{name: "diff reporter", format: reporter.FormatDiff},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{
				Writer: &buf,
				Format: tt.format,
				Color:  "never",
			})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.False(t, opts.ShowQueryErrors)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_Grouped(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatID,
		WorkingDir:  workDir,
	})

	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "Data/Report.cs (2 issues)")
	assert.Contains(t, out, "Data/Report.cs:4:23")
	assert.Contains(t, out, "(EF1000) [fixable]")
	assert.Contains(t, out, "(EF1002)")
	assert.Contains(t, out, `db.Salesmen.Include("Orders").Skip(page * 10);`)
	assert.Contains(t, out, "Broken.cs: error: permission denied")
	assert.Contains(t, out, "2 issues (1 error, 1 warning) in 1 file, 1 fixable")
	assert.NotContains(t, out, workDir)
	assert.NotContains(t, out, "no type for db")
}

func TestTextReporter_Flat(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:          &buf,
		Color:           "never",
		RuleFormat:      config.RuleFormatCombined,
		WorkingDir:      workDir,
		ShowQueryErrors: true,
	})

	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.NotContains(t, out, "(2 issues)")
	assert.Contains(t, out, "(EF1002/pagination-argument)")
	assert.Contains(t, out, "Data/Report.cs:4  skipped  no type for db")
	assert.NotContains(t, out, "^")
}

func TestTextReporter_RuleFormat(t *testing.T) {
	tests := []struct {
		format   config.RuleFormat
		contains string
	}{
		{config.RuleFormatName, "(include-string-path)"},
		{config.RuleFormatID, "(EF1000)"},
		{config.RuleFormatCombined, "(EF1000/include-string-path)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			rep := reporter.NewTextReporter(reporter.Options{
				Writer:      &buf,
				Color:       "never",
				GroupByFile: true,
				RuleFormat:  tt.format,
			})

			_, err := rep.Report(context.Background(), sampleResult())
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: workDir})

	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 2)
	file := output.Files[0]
	assert.Equal(t, "Data/Report.cs", file.Path)
	require.Len(t, file.Diagnostics, 2)

	include := file.Diagnostics[0]
	assert.Equal(t, "EF1000", include.RuleID)
	assert.Equal(t, "include-string-path", include.RuleName)
	assert.Equal(t, "Include", include.Method)
	assert.Equal(t, 80, include.StartOffset)
	assert.True(t, include.Fixable)
	assert.False(t, file.Diagnostics[1].Fixable)

	require.Len(t, file.QueryErrors, 1)
	assert.Equal(t, 4, file.QueryErrors[0].Line)

	assert.Equal(t, "permission denied", output.Files[1].Error)

	summary := output.Summary
	assert.Equal(t, 2, summary.FilesChecked)
	assert.Equal(t, 1, summary.FilesIgnored)
	assert.Equal(t, 1, summary.FilesErrored)
	assert.Equal(t, 7, summary.TypesIndexed)
	assert.Equal(t, 1, summary.Fixable)
	assert.Equal(t, 1, summary.QueryFailures)
	assert.Equal(t, map[string]int{"warning": 1, "error": 1}, summary.BySeverity)
}

func TestJSONReporter_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	result := sampleResult()
	result.Files[0].Result.Diagnostics[0].Suggestion = "Include(a => a.Orders)"

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"suggestion":"Include(a => a.Orders)"`)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewSARIFReporter(reporter.Options{
		Writer:      &buf,
		WorkingDir:  workDir,
		ToolVersion: "1.2.3",
	})

	count, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)

	run := output.Runs[0]
	assert.Equal(t, "eflint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.AutomationDetails.GUID, 36)

	require.Len(t, run.Tool.Driver.Rules, 2)
	rule := run.Tool.Driver.Rules[0]
	assert.Equal(t, "EF1000", rule.ID)
	assert.Equal(t, "include-string-path", rule.Name)
	require.NotNil(t, rule.FullDescription)
	assert.NotEmpty(t, rule.FullDescription.Text)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, "warning", first.Level)
	assert.Equal(t, true, first.Properties["fixable"])
	loc := first.Locations[0].PhysicalLocation
	assert.Equal(t, "Data/Report.cs", loc.ArtifactLocation.URI)
	assert.Equal(t, 4, loc.Region.StartLine)
	require.NotNil(t, loc.Region.ByteOffset)
	assert.Equal(t, 80, *loc.Region.ByteOffset)
	assert.Equal(t, 17, *loc.Region.ByteLength)

	assert.Equal(t, "error", run.Results[1].Level)
	assert.Nil(t, run.Results[1].Properties)

	require.Len(t, run.Invocations, 1)
	invocation := run.Invocations[0]
	assert.False(t, invocation.ExecutionSuccessful)
	require.Len(t, invocation.ToolExecutionNotifications, 2)
	assert.Equal(t, "warning", invocation.ToolExecutionNotifications[0].Level)
	assert.Equal(t, "error", invocation.ToolExecutionNotifications[1].Level)
}

func TestSARIFReporter_GUIDPerRun(t *testing.T) {
	guid := func() string {
		var buf bytes.Buffer
		_, err := reporter.NewSARIFReporter(reporter.Options{Writer: &buf}).Report(context.Background(), nil)
		require.NoError(t, err)
		var output reporter.SARIFOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
		assert.Equal(t, "dev", output.Runs[0].Tool.Driver.Version)
		return output.Runs[0].AutomationDetails.GUID
	}

	assert.NotEqual(t, guid(), guid())
}

func TestSARIFReporter_SeverityLevels(t *testing.T) {
	result := sampleResult()
	result.Files = result.Files[:1]
	result.Stats.FilesErrored = 0
	result.Files[0].Result.Diagnostics[1].Severity = config.SeverityInfo
	result.Files[0].Result.Diagnostics[1].RuleID = "EF9999"

	var buf bytes.Buffer
	_, err := reporter.NewSARIFReporter(reporter.Options{Writer: &buf}).Report(context.Background(), result)
	require.NoError(t, err)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "note", output.Runs[0].Results[1].Level)
	assert.Nil(t, output.Runs[0].Tool.Driver.Rules[1].FullDescription)
	assert.True(t, output.Runs[0].Invocations[0].ExecutionSuccessful)
}

func TestDiffReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never"})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDiffReporter_NoDiffs(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never"})

	result := sampleResult()
	result.Files = result.Files[:1]

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDiffReporter_WithDiff(t *testing.T) {
	path := reportPath()
	fixed := strings.Replace(reportSource, `Include("Orders")`, `Include(a => a.Orders)`, 1)

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path: path,
			Result: &lint.PipelineResult{
				Path:     path,
				Modified: true,
				Diff:     fix.GenerateDiff(path, []byte(reportSource), []byte(fixed)),
			},
		}},
	}

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  workDir,
	})

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/Data/Report.cs b/Data/Report.cs")
	assert.Contains(t, out, "--- a/Data/Report.cs")
	assert.Contains(t, out, "+++ b/Data/Report.cs")
	assert.Contains(t, out, "-\t\tvar q = db.Salesmen.Include(\"Orders\").Skip(page * 10);\n")
	assert.Contains(t, out, "+\t\tvar q = db.Salesmen.Include(a => a.Orders).Skip(page * 10);\n")
	assert.Contains(t, out, " \tvoid Run(ShopContext db, int page) {\n", "context lines keep their tabs")
	assert.NotContains(t, out, "    var q", "tabs must not be expanded")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)")
}
