//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary   = "bin/eflint"
	mainPkg  = "./cmd/eflint"
	rulesPkg = "./pkg/lint/rules"
	coverOut = "coverage.out"
)

var Default = Build

var Aliases = map[string]any{
	"b":      Build,
	"t":      Test.Default,
	"g":      Test.Golden,
	"l":      Lint.Default,
	"c":      Check,
	"sample": Sample,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/eflint when any Go source is newer than the binary.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build output.
func Clean() error {
	for _, path := range []string{"bin", coverOut, "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Sample lints the rule fixtures with the built binary and prints a diff
// of the fixes it would make.
func Sample() error {
	st.Deps(Build)
	return runEflint("lint", "--dry-run", "--stats", "pkg/lint/rules/testdata")
}

// Default runs every test with the race detector and coverage.
func (Test) Default() error {
	return goTest("pkgname-and-test-fails", "-race", "-coverprofile="+coverOut, "-covermode=atomic", "./...")
}

// Verbose is Default with per-test output.
func (Test) Verbose() error {
	return goTest("standard-verbose", "-race", "./...")
}

// Rules runs only the analyzer and golden tests.
func (Test) Rules() error {
	return goTest("testname", rulesPkg, "./pkg/semantic/...", "./pkg/rewrite/...")
}

// Golden regenerates the rule golden files from current behavior.
func (Test) Golden() error {
	return sh.RunV("go", "test", rulesPkg, "-run", "Golden", "-update")
}

// Coverage renders coverage.out as HTML.
func (Test) Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html="+coverOut, "-o", "coverage.html")
}

// Default runs golangci-lint with --fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt rewrites Go sources with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change anything.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed:\n%s", out)
	}
	return nil
}

// Gate is what CI runs on every push. There is no cross-compile step:
// the tree-sitter grammar needs cgo for the target platform.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, CI.Lint, Build, Test.Default, CI.ModTidy)
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without modifying files.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readAll("go.mod", "go.sum")
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readAll("go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go mod tidy changed go.mod or go.sum")
	}
	return nil
}

// Default runs the Go benchmarks.
func (Bench) Default() error {
	return goTest("pkgname-and-test-fails", "-run", "^$", "-bench", ".", "-benchmem", "./...")
}

// Profile lints the rule fixtures with CPU and heap profiles enabled.
func (Bench) Profile() error {
	st.Deps(Build)
	if err := os.MkdirAll("bin/prof", 0o755); err != nil {
		return err
	}
	if err := runEflint("lint", "--quiet",
		"--cpuprofile", "bin/prof/cpu.out",
		"--memprofile", "bin/prof/mem.out",
		"pkg/lint/rules/testdata"); err != nil {
		return err
	}
	fmt.Println("go tool pprof", binary, "bin/prof/cpu.out")
	return nil
}

func goTest(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	full := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", full...)
}

// runEflint runs the built binary. Exit status 1 only means issues were
// reported and is not a failure here.
func runEflint(args ...string) error {
	cmd := exec.Command(binary, args...) //nolint:gosec // fixed binary path
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	var exitErr *exec.ExitError
	if err := cmd.Run(); err != nil && !(errors.As(err, &exitErr) && exitErr.ExitCode() == 1) {
		return fmt.Errorf("eflint %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func readAll(paths ...string) ([]byte, error) {
	var buf bytes.Buffer
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
