package rules_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/pkg/fix"
	"github.com/yaklabco/eflint/pkg/lint"
)

// Files of one golden case share a stem: <stem>.input.cs is linted and
// fixed, the rest hold what that should produce.
const (
	inputSuffix  = ".input.cs"
	goldenSuffix = ".golden.cs"
	diagsSuffix  = ".diags.json"
	listSuffix   = ".diags.txt" // human-readable copy, written on -update only
)

var ruleIDPattern = regexp.MustCompile(`^EF\d{4}$`)

type goldenCase struct {
	dir  string
	stem string

	// ruleID restricts the run to one rule; empty runs every rule.
	ruleID string
}

func (c goldenCase) name() string { return filepath.Base(c.dir) + "/" + c.stem }

func (c goldenCase) file(suffix string) string { return filepath.Join(c.dir, c.stem+suffix) }

// expectedDiag is the JSON form of a diagnostic in a .diags.json file.
type expectedDiag struct {
	Rule     string `json:"rule"`
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Fixable  bool   `json:"fixable"`
}

func expectations(diags []lint.Diagnostic) []expectedDiag {
	out := make([]expectedDiag, len(diags))
	for i, d := range diags {
		out[i] = expectedDiag{
			Rule:     d.RuleID,
			Name:     d.RuleName,
			Line:     d.StartLine,
			Column:   d.StartColumn,
			Message:  d.Message,
			Severity: string(d.Severity),
			Fixable:  d.HasFix(),
		}
	}
	return out
}

// discoverTestCases finds every input one directory below baseDir. A
// directory named after a rule ID runs only that rule.
func discoverTestCases(t *testing.T, baseDir string) []goldenCase {
	t.Helper()

	inputs, err := filepath.Glob(filepath.Join(baseDir, "*", "*"+inputSuffix))
	require.NoError(t, err)

	cases := []goldenCase{}
	for _, input := range inputs {
		c := goldenCase{
			dir:  filepath.Dir(input),
			stem: strings.TrimSuffix(filepath.Base(input), inputSuffix),
		}
		if dirName := filepath.Base(c.dir); ruleIDPattern.MatchString(dirName) {
			c.ruleID = dirName
		}
		cases = append(cases, c)
	}
	return cases
}

// compareWithGolden checks actual against the golden file, or rewrites the
// file when update is set.
func compareWithGolden(t *testing.T, actual []byte, goldenPath string, update bool) {
	t.Helper()

	if update {
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
		t.Logf("updated %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing %s; run with -update to create it", goldenPath)
		return
	}
	require.NoError(t, err)

	if !bytes.Equal(actual, expected) {
		t.Errorf("output differs from %s", goldenPath)
		if d := fix.GenerateDiff(filepath.Base(goldenPath), expected, actual); d != nil {
			t.Logf("\n%s", d.FullString())
		}
	}
}

// compareDiags checks diagnostics against the case's .diags.json, or
// rewrites it and the .diags.txt listing when update is set.
func compareDiags(t *testing.T, actual []lint.Diagnostic, c goldenCase, update bool) {
	t.Helper()

	got := expectations(actual)
	jsonPath := c.file(diagsSuffix)

	if update {
		data, err := json.MarshalIndent(got, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(jsonPath, append(data, '\n'), 0o644))
		require.NoError(t, os.WriteFile(c.file(listSuffix), listing(c, actual), 0o644))
		t.Logf("updated %s", jsonPath)
		return
	}

	data, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing %s; run with -update to create it", jsonPath)
		return
	}
	require.NoError(t, err)

	want := []expectedDiag{}
	if len(bytes.TrimSpace(data)) > 0 {
		require.NoError(t, json.Unmarshal(data, &want), "parse %s", jsonPath)
	}
	assert.Equal(t, want, got)
}

func listing(c goldenCase, diags []lint.Diagnostic) []byte {
	var b bytes.Buffer
	for _, d := range diags {
		fixable := ""
		if d.HasFix() {
			fixable = " [fixable]"
		}
		fmt.Fprintf(&b, "%s:%d:%d %s %s (%s)%s\n",
			c.stem+inputSuffix, d.StartLine, d.StartColumn, d.Severity, d.Message, d.RuleName, fixable)
	}
	return b.Bytes()
}
