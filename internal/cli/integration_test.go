package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/internal/cli"
)

// reportSource has one fixable string Include on line 10.
const reportSource = `using System.Collections.Generic;
using System.Linq;

namespace Shop.Data
{
    public class Reports
    {
        public List<Salesman> Load(SalesContext db)
        {
            return db.Salesmen.Include("Orders").ToList();
        }
    }

    public class Salesman
    {
        public virtual ICollection<Order> Orders { get; set; }
    }

    public class Order { }

    public class SalesContext : DbContext
    {
        public DbSet<Salesman> Salesmen { get; set; }
    }
}
`

const cleanSource = `using System.Linq;

namespace Shop.Data
{
    public class Names
    {
        public int Count(int[] values)
        {
            return values.Count();
        }
    }
}
`

type lintRun struct {
	stdout string
	stderr string
	err    error
}

func (r lintRun) output() string {
	return r.stdout + r.stderr
}

// writeProject writes files into a fresh directory along with an empty
// config file, and returns the directory and the config path.
func writeProject(t *testing.T, files map[string]string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfgFile := filepath.Join(dir, ".eflint.yml")
	if _, ok := files[".eflint.yml"]; !ok {
		require.NoError(t, os.WriteFile(cfgFile, nil, 0o644))
	}
	return dir, cfgFile
}

func execute(t *testing.T, args ...string) lintRun {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return lintRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// TestIntegration_RuleFormatFlag tests the --rule-format flag with different formats.
func TestIntegration_RuleFormatFlag(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Report.cs": reportSource})

	tests := []struct {
		name           string
		ruleFormat     string
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:           "format name shows rule name only",
			ruleFormat:     "name",
			wantContains:   []string{"include-string-path"},
			wantNotContain: []string{"EF1000/"},
		},
		{
			name:           "format id shows rule ID only",
			ruleFormat:     "id",
			wantContains:   []string{"EF1000"},
			wantNotContain: []string{"include-string-path"},
		},
		{
			name:         "format combined shows both ID and name",
			ruleFormat:   "combined",
			wantContains: []string{"EF1000/include-string-path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := execute(t,
				"lint",
				"--config", cfgFile,
				"--rule-format", tt.ruleFormat,
				"--no-context",
				"--color", "never",
				dir,
			)
			assert.Equal(t, cli.ExitIssues, cli.ExitCode(run.err))

			for _, want := range tt.wantContains {
				assert.Contains(t, run.stdout, want,
					"output should contain %q for rule-format=%s", want, tt.ruleFormat)
			}
			for _, notWant := range tt.wantNotContain {
				assert.NotContains(t, run.stdout, notWant,
					"output should not contain %q for rule-format=%s", notWant, tt.ruleFormat)
			}
		})
	}
}

func TestIntegration_CleanProject(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Names.cs": cleanSource})

	run := execute(t, "lint", "--config", cfgFile, "--color", "never", dir)

	require.NoError(t, run.err)
	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(run.err))
	assert.NotContains(t, run.stdout, "EF10")
}

func TestIntegration_DisableRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{
			name:   "config by name",
			config: "rules:\n  include-string-path:\n    enabled: false\n",
		},
		{
			name:   "config by ID",
			config: "rules:\n  EF1000:\n    enabled: false\n",
		},
		{
			name: "disable flag",
			args: []string{"--disable", "EF1000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir, cfgFile := writeProject(t, map[string]string{
				"Report.cs":   reportSource,
				".eflint.yml": tt.config,
			})

			args := append([]string{"lint", "--config", cfgFile, "--color", "never"}, tt.args...)
			run := execute(t, append(args, dir)...)

			require.NoError(t, run.err)
			assert.NotContains(t, run.stdout, "include-string-path")
			assert.NotContains(t, run.stdout, "EF1000")
		})
	}
}

func TestIntegration_DuplicateRuleWarning(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{
		"Names.cs": cleanSource,
		".eflint.yml": `rules:
  EF1000:
    enabled: true
  include-string-path:
    enabled: false
`,
	})

	run := execute(t, "lint", "--config", cfgFile, "--color", "never", dir)

	require.NoError(t, run.err)
	assert.Contains(t, run.stderr, "duplicate rule configuration")
}

func TestIntegration_PrintConfig(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{
		"Report.cs":   reportSource,
		".eflint.yml": "rules:\n  include-string-path:\n    severity: error\n",
	})

	run := execute(t, "lint", "--config", cfgFile, "--print-config", "--ignore", "Migrations/**", dir)

	require.NoError(t, run.err, "printing the config does not lint")
	assert.Contains(t, run.stdout, "rules:\n  EF1000:\n    severity: error\n", "rule keys are normalized to IDs")
	assert.Contains(t, run.stdout, "Migrations/**")
	assert.NotContains(t, run.stdout, "Include path")
}

func TestIntegration_JSONOutputIncludesBothIDAndName(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Report.cs": reportSource})

	run := execute(t, "lint", "--config", cfgFile, "--format", "json", dir)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(run.err))

	var output struct {
		Files []struct {
			Path        string `json:"path"`
			Diagnostics []struct {
				RuleID    string `json:"ruleId"`
				RuleName  string `json:"ruleName"`
				Method    string `json:"method"`
				StartLine int    `json:"startLine"`
				Fixable   bool   `json:"fixable"`
			} `json:"diagnostics"`
		} `json:"files"`
		Summary struct {
			TotalIssues  int `json:"totalIssues"`
			TypesIndexed int `json:"typesIndexed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &output), run.stdout)

	require.Len(t, output.Files, 1)
	assert.Equal(t, "Report.cs", filepath.Base(output.Files[0].Path))
	require.Len(t, output.Files[0].Diagnostics, 1)

	diag := output.Files[0].Diagnostics[0]
	assert.Equal(t, "EF1000", diag.RuleID)
	assert.Equal(t, "include-string-path", diag.RuleName)
	assert.Equal(t, "Include", diag.Method)
	assert.Equal(t, 10, diag.StartLine)
	assert.True(t, diag.Fixable)

	assert.Equal(t, 1, output.Summary.TotalIssues)
	assert.Positive(t, output.Summary.TypesIndexed)
}

func TestIntegration_SARIFOutput(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Report.cs": reportSource})

	run := execute(t, "lint", "--config", cfgFile, "--format", "sarif", "--compact", dir)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(run.err))

	var output struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &output), run.stdout)

	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)
	assert.Equal(t, "eflint", output.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "test", output.Runs[0].Tool.Driver.Version)
	require.Len(t, output.Runs[0].Results, 1)
	assert.Equal(t, "EF1000", output.Runs[0].Results[0].RuleID)
}

func TestIntegration_Fix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantBackup bool
	}{
		{name: "with backup", wantBackup: true},
		{name: "no backups", args: []string{"--no-backups"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir, cfgFile := writeProject(t, map[string]string{"Report.cs": reportSource})
			path := filepath.Join(dir, "Report.cs")

			args := append([]string{"lint", "--config", cfgFile, "--fix", "--color", "never"}, tt.args...)
			run := execute(t, append(args, dir)...)

			require.NoError(t, run.err, run.output())

			fixed, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(fixed), `db.Salesmen.Include(a => a.Orders).ToList();`)
			assert.NotContains(t, string(fixed), `Include("Orders")`)

			backup, err := os.ReadFile(path + ".eflint.bak")
			if tt.wantBackup {
				require.NoError(t, err)
				assert.Equal(t, reportSource, string(backup))
			} else {
				assert.True(t, os.IsNotExist(err), "unexpected backup: %v", err)
			}
		})
	}
}

func TestIntegration_DryRunDiff(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Report.cs": reportSource})
	path := filepath.Join(dir, "Report.cs")

	run := execute(t, "lint", "--config", cfgFile, "--fix", "--dry-run", "--format", "diff", dir)

	assert.Contains(t, run.stdout, `+            return db.Salesmen.Include(a => a.Orders).ToList();`)
	assert.Contains(t, run.stdout, `-            return db.Salesmen.Include("Orders").ToList();`)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, reportSource, string(content), "dry run must not write")

	_, err = os.Stat(path + ".eflint.bak")
	assert.True(t, os.IsNotExist(err))
}

func TestIntegration_UsageErrors(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{"Names.cs": cleanSource})
	badConfig := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badConfig, []byte("flavor: commonmark\n"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"unknown config key", []string{"lint", "--config", badConfig, dir}},
		{"missing config file", []string{"lint", "--config", filepath.Join(dir, "nope.yml"), dir}},
		{"missing schema", []string{"lint", "--config", cfgFile, "--schema", filepath.Join(dir, "nope.yml"), dir}},
		{"unknown format", []string{"lint", "--config", cfgFile, "--format", "table", dir}},
		{"unknown command", []string{"lnt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := execute(t, tt.args...)
			require.Error(t, run.err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(run.err), run.err.Error())
		})
	}
}

func TestIntegration_MissingPathIsRuntimeError(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, nil)

	run := execute(t, "lint", "--config", cfgFile, filepath.Join(dir, "Missing.cs"))

	require.Error(t, run.err)
	assert.Equal(t, cli.ExitRuntime, cli.ExitCode(run.err))
}

func TestIntegration_RulesCommandWithFormat(t *testing.T) {
	t.Parallel()

	run := execute(t, "rules", "--format", "json")
	require.NoError(t, run.err)

	var rules []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &rules), run.stdout)

	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"EF1000", "EF1001", "EF1002"}, ids)
}

func TestIntegration_RulesCommandText(t *testing.T) {
	t.Parallel()

	run := execute(t, "rules", "--rule-format", "id")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "EF1001")
	assert.NotContains(t, run.stdout, "projection-constructor")
}

func TestIntegration_StatsSummary(t *testing.T) {
	t.Parallel()

	dir, cfgFile := writeProject(t, map[string]string{
		"Report.cs": reportSource,
		"Names.cs":  cleanSource,
	})

	run := execute(t, "lint", "--config", cfgFile, "--stats", "--color", "never", dir)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(run.err))

	assert.Contains(t, run.stdout, "Summary")
	assert.Contains(t, run.stdout, "Files checked:     2")
	assert.Contains(t, run.stdout, "Files with issues: 1")
	assert.Contains(t, run.stdout, "Total issues:      1")

	quiet := execute(t, "lint", "--config", cfgFile, "--quiet", "--color", "never", dir)
	assert.Contains(t, quiet.stdout, "include-string-path")
	assert.NotContains(t, quiet.stdout, "Summary")
	assert.NotContains(t, quiet.stdout, "1 issue (")
}
