package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/eflint/internal/configloader"
	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
	_ "github.com/yaklabco/eflint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/eflint/pkg/parser/treesitter"
	"github.com/yaklabco/eflint/pkg/reporter"
	"github.com/yaklabco/eflint/pkg/runner"
)

type lintFlags struct {
	format           string
	ruleFormat       string
	ignore           []string
	enable           []string
	disable          []string
	fixRules         []string
	extensions       []string
	schema           string
	maxPasses        int
	includeGenerated bool
	noContext        bool
	compact          bool
	quiet            bool
	showQueryErrors  bool
	stats            bool
	printConfig      bool
	profile          profileFlags
}

func newLintCommand() *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint C# files for Entity Framework query issues",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,

		Annotations: map[string]string{envHelpAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := startProfiling(flags.profile)
			if err != nil {
				return usageError(err)
			}
			defer stop()

			return runLint(cmd, args, &cfg, flags)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint C# files for Entity Framework query issues.

By default, lints all .cs files in the current directory and subdirectories,
skipping hidden, bin and obj directories. Every file is parsed into a shared
type index first, so entity and context types declared in one file are known
when linting another. Generated and vendored files are indexed but not linted
unless --include-generated is set.

Examples:
  eflint lint                        # Lint current directory
  eflint lint src/Shop.Data          # Lint one project
  eflint lint --fix                  # Lint and rewrite files in place
  eflint lint --fix --dry-run        # Show fixes as a diff without writing
  eflint lint --format sarif         # Output SARIF for code scanning
  eflint lint --schema entities.yml  # Describe entities from a referenced assembly`

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	if err := applyLintFlags(cmd, cfg, flags); err != nil {
		return usageError(err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return usageError(errors.Join(errors.New("failed to load configuration"), err))
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	logger.Debug("configuration loaded",
		logging.FieldPaths, loadResult.LoadedFrom,
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldSchema, finalCfg.Model.Schema,
	)

	if flags.printConfig {
		data, err := finalCfg.ToYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if _, err := runner.ModelSchema(finalCfg, workDir); err != nil {
		return usageError(fmt.Errorf("load entity schema: %w", err))
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return usageError(fmt.Errorf("invalid format: %w", err))
	}

	engine := lint.NewEngine(treesitter.New(), lint.DefaultRegistry)
	lintRunner := runner.New(lint.NewPipeline(engine))

	runOpts := runner.Options{
		Paths:            args,
		WorkingDir:       workDir,
		Extensions:       finalCfg.Extensions,
		ExcludeGlobs:     finalCfg.Ignore,
		IncludeGenerated: flags.includeGenerated,
		Jobs:             finalCfg.Jobs,
		Config:           finalCfg,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := lintRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		ErrorWriter:     cmd.ErrOrStderr(),
		Format:          format,
		Color:           colorMode(cmd),
		ShowContext:     !flags.noContext,
		ShowSummary:     !flags.quiet,
		GroupByFile:     true,
		Compact:         flags.compact,
		RuleFormat:      finalCfg.RuleFormat,
		ShowQueryErrors: flags.showQueryErrors,
		DetailedSummary: flags.stats,
		WorkingDir:      workDir,
		ToolVersion:     toolVersion(cmd),
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	logger.Info("lint complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldTypesIndexed, result.Stats.TypesIndexed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldFixesApplied, result.Stats.FixesApplied,
	)

	switch ExitCodeFromResult(result) {
	case ExitRuntime:
		return ErrRunFailed
	case ExitIssues:
		return ErrLintIssuesFound
	default:
		return nil
	}
}

// applyLintFlags copies explicitly set flags into cfg, which the loader
// merges with the highest precedence.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) error {
	changed := cmd.Flags().Changed

	if changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return err
		}
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if changed("ext") {
		cfg.Extensions = normalizeExtensions(flags.extensions)
	}
	if changed("schema") {
		cfg.Model.Schema = flags.schema
	}
	if changed("max-passes") {
		cfg.FixOptions.MaxPasses = flags.maxPasses
	}

	cfg.Ignore = flags.ignore
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.FixRules = flags.fixRules

	return nil
}

// normalizeExtensions lowercases extensions and adds a missing leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func toolVersion(cmd *cobra.Command) string {
	if root := cmd.Root(); root != nil && root.Version != "" {
		return root.Version
	}
	return ""
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rule IDs")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to lint (default .cs)")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "YAML file describing entity types not found in the sources")
	cmd.Flags().IntVar(&flags.maxPasses, "max-passes", 0, "maximum fix passes per file (0 = default)")
	cmd.Flags().BoolVar(&flags.includeGenerated, "include-generated", false,
		"also lint generated and vendored files")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON and SARIF output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.showQueryErrors, "show-query-errors", false,
		"list calls skipped because their types could not be resolved")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print a detailed summary instead of a single line")
	cmd.Flags().BoolVar(&flags.printConfig, "print-config", false,
		"print the merged configuration as YAML and exit")

	addProfileFlags(cmd, &flags.profile)

	setFlagGroup(cmd, "Fix Flags", "fix", "dry-run", "fix-rules", "no-backups", "max-passes")
	setFlagGroup(cmd, "Output Flags",
		"format", "rule-format", "no-context", "compact", "quiet", "stats", "show-query-errors", "print-config")
	setFlagGroup(cmd, "Profiling Flags", "cpuprofile", "memprofile", "trace")
}
