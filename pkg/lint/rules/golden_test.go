package rules_test

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/lint/rules"
	"github.com/yaklabco/eflint/pkg/parser/treesitter"
)

// update rewrites golden files instead of comparing.
// Usage: go test ./pkg/lint/rules/... -run TestGolden -update.
var update = flag.Bool("update", false, "update golden files")

func testdataDir(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get test file path")
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// goldenEngine returns an engine running ruleID only, or every rule.
func goldenEngine(t *testing.T, ruleID string) *lint.Engine {
	t.Helper()

	registry := lint.NewRegistry()
	if ruleID == "" {
		rules.RegisterAll(registry)
	} else {
		rule, ok := lint.DefaultRegistry.Lookup(ruleID)
		require.True(t, ok, "unknown rule %s", ruleID)
		registry.Register(rule)
	}
	return lint.NewEngine(treesitter.New(), registry)
}

// TestGolden lints each testdata input, compares the diagnostics, then runs
// the batch fixer and compares the fixed file.
func TestGolden(t *testing.T) {
	cases := discoverTestCases(t, testdataDir(t))
	if len(cases) == 0 {
		t.Skip("No golden test cases found. Create testdata/<RULE_ID>/*.input.cs files to add tests.")
	}

	for _, tc := range cases {
		t.Run(tc.name(), func(t *testing.T) {
			ctx := context.Background()
			input, err := os.ReadFile(tc.file(inputSuffix))
			require.NoError(t, err)

			engine := goldenEngine(t, tc.ruleID)
			snapshot, err := engine.Parser.Parse(ctx, tc.stem+inputSuffix, input)
			require.NoError(t, err)

			result, err := engine.LintSnapshot(ctx, snapshot, fixConfig())
			require.NoError(t, err)
			compareDiags(t, result.Diagnostics, tc, *update)

			outcome, err := engine.FixAll(ctx, snapshot, fixConfig(), 0)
			require.NoError(t, err)
			compareWithGolden(t, outcome.Snapshot.Content, tc.file(goldenSuffix), *update)
		})
	}
}

// TestGoldenRoundTrip checks that fixing a fixed file changes nothing.
func TestGoldenRoundTrip(t *testing.T) {
	cases := discoverTestCases(t, testdataDir(t))
	if len(cases) == 0 {
		t.Skip("No golden test cases found for round-trip testing.")
	}

	for _, tc := range cases {
		t.Run(tc.name()+"_roundtrip", func(t *testing.T) {
			ctx := context.Background()
			golden, err := os.ReadFile(tc.file(goldenSuffix))
			require.NoError(t, err)

			engine := goldenEngine(t, tc.ruleID)
			snapshot, err := engine.Parser.Parse(ctx, tc.stem+goldenSuffix, golden)
			require.NoError(t, err)

			outcome, err := engine.FixAll(ctx, snapshot, fixConfig(), 0)
			require.NoError(t, err)
			assert.Zero(t, outcome.Applied)
			assert.Equal(t, string(golden), string(outcome.Snapshot.Content))
		})
	}
}

func TestGoldenTestInfrastructure(t *testing.T) {
	for input, want := range map[string]bool{
		"EF1000": true, "EF1002": true, "EF100": false, "ef1000": false, "real-world": false, "": false,
	} {
		assert.Equal(t, want, ruleIDPattern.MatchString(input), input)
	}

	dir := testdataDir(t)
	assert.True(t, filepath.IsAbs(dir))
	cases := discoverTestCases(t, dir)
	require.NotEmpty(t, cases)
	for _, c := range cases {
		assert.NotEmpty(t, c.ruleID, c.name())
		assert.FileExists(t, c.file(goldenSuffix))
	}
}
