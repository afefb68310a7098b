package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/internal/ui/pretty"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

func includeDiagnostic() *lint.Diagnostic {
	return &lint.Diagnostic{
		RuleID:      "EF1000",
		RuleName:    "include-string-path",
		Message:     `Include path "Orders" should be a lambda expression`,
		Severity:    config.SeverityWarning,
		FilePath:    "Data/Report.cs",
		StartLine:   12,
		StartColumn: 21,
		EndLine:     12,
		EndColumn:   38,
	}
}

func TestDiagnostic_MainLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.Diagnostic(includeDiagnostic(), pretty.DiagnosticView{RuleFormat: config.RuleFormatID})

	assert.Equal(t,
		"  Data/Report.cs:12:21  warning  Include path \"Orders\" should be a lambda expression  (EF1000)\n",
		got)
}

func TestDiagnostic_Fixable(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := includeDiagnostic()
	diag.Fixable = true

	got := styles.Diagnostic(diag, pretty.DiagnosticView{RuleFormat: config.RuleFormatID})

	assert.Contains(t, got, "(EF1000) [fixable]")
}

func TestDiagnostic_UnderlinesSpan(t *testing.T) {
	styles := pretty.NewStyles(false)

	source := `var q = db.Salesmen.Include("Orders");`
	got := styles.Diagnostic(includeDiagnostic(), pretty.DiagnosticView{SourceLine: source})

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "        "+source, lines[1])
	assert.Equal(t, "        "+strings.Repeat(" ", 20)+"^"+strings.Repeat("~", 16), lines[2])
}

func TestDiagnostic_MultiLineSpanMarksStart(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := includeDiagnostic()
	diag.EndLine = 14

	got := styles.Diagnostic(diag, pretty.DiagnosticView{SourceLine: `var q = db.Salesmen.Include(`})

	assert.True(t, strings.HasSuffix(got, strings.Repeat(" ", 20)+"^\n"), got)
}

func TestDiagnostic_Suggestion(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := &lint.Diagnostic{
		RuleID:     "EF1002",
		Message:    "Use the lambda overload of Skip so the value is parameterized",
		Severity:   config.SeverityInfo,
		FilePath:   "Pager.cs",
		StartLine:  1,
		Suggestion: "Skip(() => offset)",
	}

	got := styles.Diagnostic(diag, pretty.DiagnosticView{})

	assert.Contains(t, got, "    Suggestion: Skip(() => offset)\n")
}

func TestDiagnostic_RuleFormat(t *testing.T) {
	styles := pretty.NewStyles(false)
	diag := includeDiagnostic()

	tests := []struct {
		format   config.RuleFormat
		contains string
		excludes string
	}{
		{config.RuleFormatName, "(include-string-path)", "(EF1000)"},
		{config.RuleFormatID, "(EF1000)", "(include-string-path)"},
		{config.RuleFormatCombined, "(EF1000/include-string-path)", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := styles.Diagnostic(diag, pretty.DiagnosticView{RuleFormat: tt.format})
			assert.Contains(t, got, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, got, tt.excludes)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	for _, sev := range []config.Severity{
		config.SeverityError, config.SeverityWarning, config.SeverityInfo, config.Severity("fatal"),
	} {
		assert.Equal(t, string(sev), styles.Severity(sev))
	}
}

func TestSourceContext(t *testing.T) {
	styles := pretty.NewStyles(false)
	indent := pad(8)

	tests := []struct {
		name       string
		line       string
		start, end int
		want       string
	}{
		{
			name:  "single column",
			line:  "query.Take(20);",
			start: 7,
			want:  indent + "query.Take(20);\n" + indent + pad(6) + "^\n",
		},
		{
			name:  "span",
			line:  "query.Take(20);",
			start: 7, end: 15,
			want: indent + "query.Take(20);\n" + indent + pad(6) + "^" + strings.Repeat("~", 7) + "\n",
		},
		{
			name:  "tabs expand",
			line:  "\t\tquery.Skip(n);",
			start: 9, end: 15,
			want: indent + pad(8) + "query.Skip(n);\n" + indent + pad(14) + "^" + strings.Repeat("~", 5) + "\n",
		},
		{
			name: "no column",
			line: "query.Take(20);",
			want: indent + "query.Take(20);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.SourceContext(tt.line, tt.start, tt.end))
		})
	}
}

func TestFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "Data/Report.cs (5 issues)", styles.FileHeader("Data/Report.cs", 5))
	assert.Equal(t, "Data/Report.cs (1 issue)", styles.FileHeader("Data/Report.cs", 1))
	assert.Equal(t, "Data/Report.cs", styles.FileHeader("Data/Report.cs", 0))
}

func pad(n int) string { return strings.Repeat(" ", n) }
