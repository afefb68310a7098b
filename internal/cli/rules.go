package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/lint/rules"
)

const formatJSON = "json"

type rulesFlags struct {
	ruleFormat string
	format     string
	tag        string
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List the built-in rules with their IDs and names, default severity,
whether they can fix what they report, and what they check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := filterByTag(rules.RuleInfos(lint.DefaultRegistry), flags.tag)

			switch flags.format {
			case "text":
				return outputRulesText(cmd.OutOrStdout(), infos, config.RuleFormat(flags.ruleFormat))
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			}
			return usageError(fmt.Errorf("invalid format %q: must be text or json", flags.format))
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules carrying this tag")

	return cmd
}

func filterByTag(infos []config.RuleInfo, tag string) []config.RuleInfo {
	if tag == "" {
		return infos
	}
	return slices.DeleteFunc(infos, func(info config.RuleInfo) bool {
		return !slices.ContainsFunc(info.Tags, func(t string) bool { return strings.EqualFold(t, tag) })
	})
}

func outputRulesText(w io.Writer, infos []config.RuleInfo, ruleFormat config.RuleFormat) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "no rules registered")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tFIX\tTAGS\tDESCRIPTION")
	for _, info := range infos {
		fixable := "-"
		if info.CanFix {
			fixable = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ruleFormat.Label(info.ID, info.Name), info.Severity, fixable,
			strings.Join(info.Tags, ","), info.Description)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

func outputRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	if infos == nil {
		infos = []config.RuleInfo{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}
