package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/lint"
)

// Runner lints many files with one Pipeline.
type Runner struct {
	Pipeline *lint.Pipeline
}

// New returns a Runner for pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths, indexes all of them, then lints
// the hand-written ones on a pool of opts.Jobs workers. The pipeline's
// engine is bound to the new index for the rest of the run.
//
// Per-file failures are recorded in the result, not returned. On
// cancellation the partial result is returned together with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	schema, err := ModelSchema(opts.Config, workDir)
	if err != nil {
		return nil, err
	}
	discovered, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{
		FilesDiscovered:       len(discovered),
		DiagnosticsBySeverity: make(map[string]int),
	}}
	if len(discovered) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(discovered))

	engine := r.Pipeline.Engine
	index, lintable, err := BuildIndex(ctx, engine.Parser, discovered, jobs, opts.IncludeGenerated)
	if err != nil {
		return result, err
	}
	if err := index.AddSchema(schema); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Config.Model.Schema, err)
	}
	engine.WithIndex(index)

	var files []string
	for i, path := range discovered {
		if lintable[i] {
			files = append(files, path)
		}
	}
	result.Stats.TypesIndexed = index.Len()
	result.Stats.FilesIgnored = len(discovered) - len(files)

	logging.FromContext(ctx).Debug("linting",
		logging.FieldFiles, len(files),
		logging.FieldTypesIndexed, result.Stats.TypesIndexed,
		logging.FieldJobs, jobs)

	outcomes := r.lintAll(ctx, files, opts, jobs)
	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.add(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// lintAll processes files concurrently. Slot i of the returned slice holds
// the outcome for files[i], or the zero value if cancellation got there
// first.
func (r *Runner) lintAll(ctx context.Context, files []string, opts Options, jobs int) []FileOutcome {
	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	outcomes := make([]FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Config, pipelineOpts)
			outcomes[i] = FileOutcome{Path: path, Result: pr, Error: err}
			if err != nil {
				outcomes[i].Result = nil
			}
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}
