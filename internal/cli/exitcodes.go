package cli

import (
	"errors"
	"strings"

	"github.com/yaklabco/eflint/pkg/runner"
)

// Exit codes for eflint.
const (
	// ExitSuccess indicates a clean run: no diagnostics remain.
	ExitSuccess = 0

	// ExitIssues indicates the run completed and diagnostics remain.
	ExitIssues = 1

	// ExitUsage indicates invalid flags, arguments or configuration.
	ExitUsage = 2

	// ExitRuntime indicates a file or internal failure during the run.
	ExitRuntime = 3
)

// ErrLintIssuesFound is returned when lint issues are found.
var ErrLintIssuesFound = errors.New("lint issues found")

// ErrRunFailed is returned when one or more files could not be processed.
var ErrRunFailed = errors.New("one or more files could not be processed")

// UsageError marks an error caused by how eflint was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitIssues
	case errors.As(err, &usage):
		return ExitUsage
	case strings.HasPrefix(err.Error(), "unknown command"):
		// cobra does not type this error.
		return ExitUsage
	default:
		return ExitRuntime
	}
}

// ExitCodeFromResult determines the exit code for a completed run. File
// failures outrank diagnostics.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitRuntime
	case result.HasIssues():
		return ExitIssues
	default:
		return ExitSuccess
	}
}
