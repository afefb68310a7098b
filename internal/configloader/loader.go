// Package configloader finds, merges and validates eflint configuration from
// files, EFLINT_* variables and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

// LoadOptions selects which configuration sources Load reads.
type LoadOptions struct {
	WorkingDir   string // project discovery starts here; defaults to os.Getwd
	ExplicitPath string // --config; loaded after the discovered files

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values and overrides every other source.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string // files read, lowest precedence first
	Warnings   []string
}

// layer is one configuration file in precedence order.
type layer struct {
	kind string
	path string
}

func (p *ConfigPaths) layers(opts LoadOptions) []layer {
	var out []layer
	add := func(kind, path string, skip bool) {
		if path != "" && !skip {
			out = append(out, layer{kind, path})
		}
	}
	add("system", p.System, opts.IgnoreSystemConfig)
	add("user", p.User, opts.IgnoreUserConfig)
	add("project", p.Project, opts.IgnoreProjectConfig)
	add("explicit", p.Explicit, false)
	return out
}

// Load resolves the final configuration. Later sources override earlier
// ones:
//
//	defaults < system file < user file < project file < --config file
//	         < EFLINT_* environment < CLI flags
//
// System and user files live in /etc/eflint and $XDG_CONFIG_HOME/eflint. The
// project file is the nearest .eflint.yml above WorkingDir.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()
	for _, l := range paths.layers(opts) {
		fileCfg, err := loadConfigFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", l.kind, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	result.Warnings = append(result.Warnings, normalizeRuleKeys(cfg, lint.DefaultRegistry)...)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	logging.FromContext(ctx).Debug("configuration resolved",
		logging.FieldPaths, result.LoadedFrom,
		logging.FieldWorkingDir, workDir)

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads one YAML file. Unknown keys are errors.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}
	return cfg, nil
}

// normalizeRuleKeys rekeys cfg.Rules by rule ID so rules can be configured
// by name or ID in any case. Keys are visited in sorted order and the later
// of two keys for one rule wins. Unknown keys stay for Validate to report.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry) (warnings []string) {
	if len(cfg.Rules) == 0 {
		return nil
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	source := make(map[string]string, len(cfg.Rules)) // ID -> key it came from

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		id := key
		if rule, ok := registry.Lookup(key); ok {
			id = rule.ID()
		}
		if prev, dup := source[id]; dup {
			warnings = append(warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					prev, key, id, key))
		}
		source[id] = key
		normalized[id] = cfg.Rules[key]
	}

	cfg.Rules = normalized
	return warnings
}
