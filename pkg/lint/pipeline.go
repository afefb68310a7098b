package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/fix"
	"github.com/yaklabco/eflint/pkg/fsutil"
)

// Pipeline failure kinds. Errors returned by ProcessFile and ProcessContent
// wrap one of these where the failure fits a kind.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

//nolint:gochecknoglobals // read-only
var pipelineErrors = []error{ErrFileNotFound, ErrPermissionDenied, ErrParseFailure, ErrWriteFailure}

// IsPipelineError reports whether err wraps one of the pipeline failure kinds.
func IsPipelineError(err error) bool {
	return slices.ContainsFunc(pipelineErrors, func(kind error) bool { return errors.Is(err, kind) })
}

// PipelineResult is what happened to one file.
type PipelineResult struct {
	// FileResult describes the final content: after fixing in fix mode,
	// otherwise the file as read.
	*FileResult

	Path         string
	OriginalInfo *fsutil.FileInfo // nil for ProcessContent

	Modified        bool
	ModifiedContent []byte
	Diff            *fix.Diff // dry-run only

	// Skipped means fixes were computed but the file changed on disk
	// before they could be written.
	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool

	FixPasses    int
	FixesApplied int // one per rewrite plan
}

// Status is a one-word-or-so account of the result for debug logs.
func (pr *PipelineResult) Status() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls one file's processing.
type PipelineOptions struct {
	Fix    bool
	DryRun bool
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing instead of
	// trusting size and modification time.
	StrictRaceDetection bool

	MaxFixPasses int // 0 means DefaultMaxFixPasses
}

// DefaultPipelineOptions lints without fixing.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{Backup: fsutil.DefaultBackupConfig(), StrictRaceDetection: true}
}

// PipelineOptionsFromConfig maps the fix-related settings of cfg. Dry-run
// implies fixing in memory.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix || cfg.DryRun
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	opts.MaxFixPasses = cfg.FixOptions.MaxPasses
	return opts
}

// BackupConfigFromConfig honors --no-backups over the backups section.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	mode := fsutil.BackupMode(cfg.Backups.Mode)
	if mode == "" {
		mode = fsutil.BackupModeSidecar
	}
	return fsutil.BackupConfig{Enabled: cfg.Backups.Enabled && !cfg.NoBackups, Mode: mode}
}

// Pipeline takes files through parse, lint, fix and write.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline over engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile is ProcessContent on the file at path followed by writing the
// fixed content back. Nothing is written in dry-run mode or when the file
// changed on disk in the meantime.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	source, info, err := fsutil.ReadFile(ctx, path)
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return nil, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case err != nil:
		return nil, err
	}

	result, err := p.ProcessContent(ctx, path, source, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if result.Modified && !opts.DryRun {
		if err := commit(ctx, result, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// commit writes result.ModifiedContent over the original file, backing it
// up first when configured.
func commit(ctx context.Context, result *PipelineResult, opts PipelineOptions) error {
	logger := logging.FromContext(ctx).With(logging.FieldPath, result.Path)
	info := result.OriginalInfo

	changed, err := fsutil.CheckModified(ctx, info, !opts.StrictRaceDetection)
	if err != nil {
		return fmt.Errorf("check modified: %w", err)
	}
	if changed {
		logger.Warn("file changed during processing, not writing fixes")
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return nil
	}

	if result.BackupCreated, err = fsutil.CreateBackup(ctx, info, opts.Backup); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := fsutil.WriteSource(ctx, info, result.ModifiedContent); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("fixes written", logging.FieldFixesApplied, result.FixesApplied)
	return nil
}

// ProcessContent lints source, and in fix mode runs the fix loop over it,
// without touching the filesystem. Dry-run results carry a diff.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, source []byte, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	start := time.Now()
	result := &PipelineResult{Path: path}

	snapshot, err := p.Engine.Parser.Parse(ctx, path, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	if !opts.Fix {
		result.FileResult, err = p.Engine.LintSnapshot(ctx, snapshot, cfg)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	outcome, err := p.Engine.FixAll(ctx, snapshot, cfg, opts.MaxFixPasses)
	if err != nil {
		return nil, err
	}
	result.FileResult = outcome.Result
	result.FixPasses = outcome.Passes
	result.FixesApplied = outcome.Applied

	if outcome.Applied > 0 && !bytes.Equal(outcome.Snapshot.Content, source) {
		result.Modified = true
		result.ModifiedContent = outcome.Snapshot.Content
		if opts.DryRun {
			result.Diff = fix.GenerateDiff(path, source, result.ModifiedContent)
		}
	}

	logging.FromContext(ctx).Debug("file processed",
		logging.FieldPath, path,
		logging.FieldStatus, result.Status(),
		logging.FieldFixesApplied, result.FixesApplied,
		logging.FieldDuration, time.Since(start))

	return result, nil
}
