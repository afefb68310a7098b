package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/eflint/pkg/config"
)

const envPrefix = "EFLINT_"

// EnvVar is one supported environment override.
type EnvVar struct {
	Name        string
	Description string
	set         func(cfg *config.Config, value string) error
}

// envVars lists the overrides in the order help prints them.
//
//nolint:gochecknoglobals // read-only table
var envVars = []EnvVar{
	{"FORMAT", "Output format: text, json, sarif or diff", text(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"RULE_FORMAT", "Rule labels in output: name, id or combined", text(func(c *config.Config, v string) { c.RuleFormat = config.RuleFormat(v) })},
	{"SEVERITY_DEFAULT", "Severity for rules without one: error, warning or info", text(func(c *config.Config, v string) { c.SeverityDefault = v })},
	{"JOBS", "Parallel workers, 0 for one per CPU", integer(func(c *config.Config, n int) { c.Jobs = n })},
	{"EXTENSIONS", "Comma-separated C# file extensions", list(func(c *config.Config, v []string) { c.Extensions = v })},
	{"IGNORE", "Comma-separated ignore globs", list(func(c *config.Config, v []string) { c.Ignore = v })},
	{"SCHEMA", "Entity schema file for the semantic model", text(func(c *config.Config, v string) { c.Model.Schema = v })},
	{"FIX", "Apply fixes in place", boolean(func(c *config.Config, b bool) { c.Fix = b })},
	{"DRY_RUN", "Compute fixes without writing", boolean(func(c *config.Config, b bool) { c.DryRun = b })},
	{"MAX_PASSES", "Fix passes per file", integer(func(c *config.Config, n int) { c.FixOptions.MaxPasses = n })},
	{"BACKUPS_ENABLED", "Back up files before fixing", boolean(func(c *config.Config, b bool) { c.Backups.Enabled = b })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", text(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{"NO_BACKUPS", "Never write backups", boolean(func(c *config.Config, b bool) { c.NoBackups = b })},
}

// EnvVars returns the supported environment variables with their full names.
func EnvVars() []EnvVar {
	out := make([]EnvVar, len(envVars))
	for i, v := range envVars {
		v.Name = envPrefix + v.Name
		out[i] = v
	}
	return out
}

// LoadFromEnv applies every set EFLINT_* variable to cfg. Empty values are
// treated as unset.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range EnvVars() {
		value, ok := os.LookupEnv(v.Name)
		if !ok || value == "" {
			continue
		}
		if err := v.set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}

func text(assign func(*config.Config, string)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		assign(c, strings.TrimSpace(v))
		return nil
	}
}

func boolean(assign func(*config.Config, bool)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		assign(c, b)
		return nil
	}
}

func integer(assign func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		assign(c, n)
		return nil
	}
}

func list(assign func(*config.Config, []string)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		var items []string
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		assign(c, items)
		return nil
	}
}
