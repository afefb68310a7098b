package cli

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/eflint/internal/configloader"
	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/fsutil"
)

const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	full   bool
	output string
}

var errInitAborted = errors.New("init aborted: existing file kept")

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new eflint configuration file",
		Long: `Create a new .eflint.yml configuration file in the current directory
with sensible defaults. The file can be customized to enable or disable rules,
change severities, and describe entity types from referenced assemblies.

When the file already exists, init asks before overwriting it on an
interactive terminal and fails otherwise unless --force is given.

Examples:
  eflint init                      Create minimal .eflint.yml
  eflint init --full               Create full config with all rules documented
  eflint init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, isInteractive())
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.ProjectConfigFiles[0]+")")

	return cmd
}

// isInteractive reports whether stdin and stderr are both terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func runInit(cmd *cobra.Command, flags *initFlags, interactive bool) error {
	target := cmp.Or(flags.output, configloader.ProjectConfigFiles[0])
	absPath, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := checkOverwrite(cmd, target, absPath, flags.force, interactive); err != nil {
		return err
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", target)
	if flags.full {
		fmt.Fprintln(out, "The full template documents every rule.")
	}
	fmt.Fprintln(out, "Run 'eflint rules' to see all available rules.")
	return nil
}

// checkOverwrite lets an existing file be replaced only with --force or a
// yes at an interactive prompt.
func checkOverwrite(cmd *cobra.Command, target, absPath string, force, interactive bool) error {
	if _, err := os.Stat(absPath); err != nil || force {
		return nil
	}
	if !interactive {
		return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", target))
	}

	ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), target+" already exists. Overwrite? [y/N] ")
	if err != nil {
		return fmt.Errorf("read answer: %w", err)
	}
	if !ok {
		return usageError(errInitAborted)
	}
	logging.FromContext(cmd.Context()).Warn("overwriting existing file", logging.FieldPath, target)
	return nil
}

// confirm prints prompt and reads a yes/no answer. Anything other than
// y or yes, including EOF, counts as no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
