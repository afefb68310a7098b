// Package cli provides the Cobra command structure for eflint.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/eflint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug     bool
	verbose   bool
	logFormat string
	config    string
	color     string
	noColor   bool
}

// NewRootCommand creates the root eflint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "eflint",
		Short: "Analyzers and fixes for Entity Framework queries in C#",
		Long: `eflint finds Entity Framework query patterns that hurt performance and
rewrites them in place.

It reports Include calls that navigate by string path (EF1000), Select
projections that construct new objects inside a query (EF1001), and Skip or
Take calls whose argument is a value rather than a deferred expression
(EF1002). Every diagnostic comes with a fix that can be previewed as a diff
or applied to the files on disk.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, flags)
		},
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log progress information")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format: text, json, logfmt")
	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output (same as --color never)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	installHelp(rootCmd)

	return rootCmd
}

// setupLogging installs the logger selected by the global flags, both as
// the package default and on the command context.
func setupLogging(cmd *cobra.Command, flags *globalFlags) error {
	switch flags.logFormat {
	case "text", "json", "logfmt":
	default:
		return usageError(fmt.Errorf("invalid --log-format %q: must be text, json or logfmt", flags.logFormat))
	}

	switch flags.color {
	case "auto", "always", "never":
	default:
		return usageError(fmt.Errorf("invalid --color %q: must be auto, always or never", flags.color))
	}

	level := "warn"
	switch {
	case flags.debug:
		level = "debug"
	case flags.verbose:
		level = "info"
	}

	logger := logging.New(logging.Options{
		Level:  level,
		Format: flags.logFormat,
		Writer: cmd.ErrOrStderr(),
	})
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	return nil
}

// colorMode resolves --color and --no-color for cmd.
func colorMode(cmd *cobra.Command) string {
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		return "never"
	}
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}
