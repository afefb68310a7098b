package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/internal/ui/pretty"
)

func renderHelp(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("CLICOLOR_FORCE", "")

	root := NewRootCommand(BuildInfo{Version: "1.2.3"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	require.NoError(t, root.Execute())
	return out.String()
}

func TestHelp_Root(t *testing.T) {
	out := renderHelp(t, "--help")

	assert.True(t, strings.HasPrefix(out, "eflint 1.2.3\n\n"), out)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "  lint ")
	assert.Contains(t, out, `Use "eflint [command] --help"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestHelp_LintGroupsFlags(t *testing.T) {
	out := renderHelp(t, "lint", "--help")

	order := []string{"Usage:", "\nFlags:", "\nFix Flags:", "\nOutput Flags:", "\nProfiling Flags:", "\nGlobal Flags:"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(out, heading)
		require.GreaterOrEqual(t, idx, 0, "missing %q", heading)
		assert.Greater(t, idx, last, "%q out of order", heading)
		last = idx
	}

	fix := section(out, "Fix Flags:")
	assert.Contains(t, fix, "--dry-run")
	assert.Contains(t, fix, "--max-passes int")
	assert.NotContains(t, fix, "--format")

	profiling := section(out, "Profiling Flags:")
	assert.Contains(t, profiling, "--cpuprofile file")
	assert.NotContains(t, section(out, "Flags:"), "--cpuprofile")

	env := section(out, "Environment:")
	assert.Contains(t, env, "EFLINT_FORMAT")
	assert.Contains(t, env, "EFLINT_SCHEMA")
	assert.Greater(t, strings.Index(out, "\nEnvironment:"), strings.Index(out, "\nGlobal Flags:"))
}

func TestHelp_RootHasNoEnvironment(t *testing.T) {
	assert.NotContains(t, renderHelp(t, "--help"), "Environment:")
}

func TestStyleFlagLine(t *testing.T) {
	s := pretty.NewStyles(false)

	tests := []string{
		"  -q, --quiet                omit the summary line\n",
		"      --format string        output format: text, json, sarif, diff\n",
		"                             continued usage text\n",
		"\n",
	}
	for _, line := range tests {
		assert.Equal(t, line, styleFlagLine(line, s))
	}
}

func TestStyleFlagLine_Colored(t *testing.T) {
	s := pretty.NewStyles(true)
	line := "  -q, --quiet   omit the summary line\n"

	got := styleFlagLine(line, s)

	assert.True(t, strings.HasPrefix(got, "  "))
	assert.True(t, strings.HasSuffix(got, "   omit the summary line\n"))
	assert.Contains(t, got, "--quiet")
}

// section returns the lines under heading up to the next blank line.
func section(out, heading string) string {
	_, rest, ok := strings.Cut(out, "\n"+heading+"\n")
	if !ok {
		return ""
	}
	body, _, _ := strings.Cut(rest, "\n\n")
	return body
}
