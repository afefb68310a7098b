package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/eflint/internal/configloader"
	"github.com/yaklabco/eflint/internal/ui/pretty"
)

const (
	// flagGroupAnnotation assigns a flag to a help section.
	flagGroupAnnotation = "eflint_help_group"

	// envHelpAnnotation on a command adds the Environment section to its help.
	envHelpAnnotation = "eflint_help_env"
)

// Help sections for grouped flags, in display order. Flags without a group
// are listed under "Flags".
var flagGroupOrder = []string{"Flags", "Fix Flags", "Output Flags", "Profiling Flags"}

// setFlagGroup files the named flags of cmd under a help section.
func setFlagGroup(cmd *cobra.Command, group string, names ...string) {
	for _, name := range names {
		_ = cmd.Flags().SetAnnotation(name, flagGroupAnnotation, []string{group})
	}
}

// installHelp replaces cobra's help and usage output for root and every
// command below it. Color is resolved per invocation so --color and
// --no-color apply to help too.
func installHelp(root *cobra.Command) {
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		writeHelp(out, cmd, pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out)))
	})
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		out := cmd.OutOrStderr()
		writeUsage(out, cmd, pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out)))
		return nil
	})
}

func writeHelp(w io.Writer, cmd *cobra.Command, s *pretty.Styles) {
	title := s.Command.Render(cmd.CommandPath())
	if cmd.Version != "" {
		title += " " + s.Dim.Render(cmd.Version)
	}
	fmt.Fprintf(w, "%s\n\n", title)

	text := cmd.Long
	if text == "" {
		text = cmd.Short
	}
	if text != "" {
		fmt.Fprintf(w, "%s\n\n", trimTrailingWhitespaces(text))
	}

	writeUsage(w, cmd, s)

	if cmd.Annotations[envHelpAnnotation] != "" {
		writeEnvironment(w, s)
	}
}

// writeEnvironment lists the EFLINT_* overrides for commands that load
// configuration.
func writeEnvironment(w io.Writer, s *pretty.Styles) {
	vars := configloader.EnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}
	fmt.Fprintf(w, "\n%s\n", s.Heading.Render("Environment:"))
	for _, v := range vars {
		fmt.Fprintf(w, "  %s   %s\n", s.Flag.Render(rpad(v.Name, width)), v.Description)
	}
}

func writeUsage(w io.Writer, cmd *cobra.Command, s *pretty.Styles) {
	fmt.Fprintln(w, s.Heading.Render("Usage:"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", s.Command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s [command]\n", s.Command.Render(cmd.CommandPath()))
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(w, "\n%s\n  %s\n", s.Heading.Render("Aliases:"), s.Dim.Render(strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n%s\n", s.Heading.Render("Examples:"), s.Dim.Render(cmd.Example))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%s\n", s.Heading.Render("Available Commands:"))
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", s.Command.Render(rpad(sub.Name(), sub.NamePadding())), sub.Short)
		}
	}

	for _, section := range groupFlags(cmd.LocalFlags()) {
		fmt.Fprintf(w, "\n%s\n%s", s.Heading.Render(section.title+":"), styleFlagUsages(section.flags.FlagUsages(), s))
	}

	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%s\n%s", s.Heading.Render("Global Flags:"),
			styleFlagUsages(cmd.InheritedFlags().FlagUsages(), s))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nUse \"%s\" for more information about a command.\n",
			s.Command.Render(cmd.CommandPath()+" [command] --help"))
	}
}

type flagSection struct {
	title string
	flags *pflag.FlagSet
}

// groupFlags splits flags into sections by their help group annotation,
// dropping sections with no visible flags.
func groupFlags(flags *pflag.FlagSet) []flagSection {
	sets := make(map[string]*pflag.FlagSet, len(flagGroupOrder))
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		group := flagGroupOrder[0]
		if g := f.Annotations[flagGroupAnnotation]; len(g) > 0 {
			group = g[0]
		}
		set, ok := sets[group]
		if !ok {
			set = pflag.NewFlagSet(group, pflag.ContinueOnError)
			set.SortFlags = flags.SortFlags
			sets[group] = set
		}
		set.AddFlag(f)
	})

	var sections []flagSection
	for _, group := range flagGroupOrder {
		if set, ok := sets[group]; ok {
			sections = append(sections, flagSection{title: group, flags: set})
		}
	}
	return sections
}

// styleFlagUsages colors the flag names in pflag's usage block while
// keeping its column alignment.
func styleFlagUsages(usages string, s *pretty.Styles) string {
	lines := strings.SplitAfter(usages, "\n")
	for i, line := range lines {
		lines[i] = styleFlagLine(line, s)
	}
	return strings.Join(lines, "")
}

// styleFlagLine styles one "  -f, --flag type   usage" line. Continuation
// lines of multi-line usages have no flag part and pass through.
func styleFlagLine(line string, s *pretty.Styles) string {
	body := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(body, "-") {
		return line
	}
	indent := line[:len(line)-len(body)]

	end := strings.Index(body, "  ")
	if end < 0 {
		end = len(strings.TrimRight(body, "\n"))
	}

	tokens := strings.Split(body[:end], " ")
	for i, tok := range tokens {
		if name, comma := strings.CutSuffix(tok, ","); strings.HasPrefix(name, "-") {
			tokens[i] = s.Flag.Render(name)
			if comma {
				tokens[i] += ","
			}
		} else {
			tokens[i] = s.Dim.Render(tok)
		}
	}

	return indent + strings.Join(tokens, " ") + body[end:]
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
