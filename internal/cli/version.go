package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/yaklabco/eflint/internal/logging"
)

// withVCS fills a commit left at its ldflags default from the VCS stamp the
// go command embeds in module builds.
func (info BuildInfo) withVCS() BuildInfo {
	if info.Commit != "" && info.Commit != "none" {
		return info
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			if info.Date == "" || info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit and build date of eflint, and the Go toolchain it was built with.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}
			resolved := info.withVCS()
			logging.New(logging.Options{Level: "info", Writer: cmd.OutOrStdout()}).Info("eflint",
				logging.FieldVersion, resolved.Version,
				logging.FieldCommit, resolved.Commit,
				logging.FieldBuilt, resolved.Date,
				logging.FieldGo, runtime.Version(),
			)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
