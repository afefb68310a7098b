package configloader

import (
	"cmp"
	"maps"
	"slices"

	"github.com/yaklabco/eflint/pkg/config"
)

// merge layers override on top of base and returns a new Config. When both
// are non-nil base is never modified or aliased. Zero
// values in override leave base alone, so a layer can only switch booleans
// on. Lists replace wholesale when set. Rule entries merge field by field
// and entity declarations replace by name.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := base.Clone()

	out.SeverityDefault = cmp.Or(override.SeverityDefault, base.SeverityDefault)
	out.Format = cmp.Or(override.Format, base.Format)
	out.RuleFormat = cmp.Or(override.RuleFormat, base.RuleFormat)
	out.Jobs = cmp.Or(override.Jobs, base.Jobs)
	out.FixOptions.MaxPasses = cmp.Or(override.FixOptions.MaxPasses, base.FixOptions.MaxPasses)
	out.Backups.Mode = cmp.Or(override.Backups.Mode, base.Backups.Mode)
	out.Model.Schema = cmp.Or(override.Model.Schema, base.Model.Schema)

	out.Fix = base.Fix || override.Fix
	out.DryRun = base.DryRun || override.DryRun
	out.NoBackups = base.NoBackups || override.NoBackups
	out.Backups.Enabled = base.Backups.Enabled || override.Backups.Enabled

	out.Ignore = replaceIfSet(out.Ignore, override.Ignore)
	out.Extensions = replaceIfSet(out.Extensions, override.Extensions)
	out.EnableRules = replaceIfSet(out.EnableRules, override.EnableRules)
	out.DisableRules = replaceIfSet(out.DisableRules, override.DisableRules)
	out.FixRules = replaceIfSet(out.FixRules, override.FixRules)

	out.Model.Entities = union(base.Model.Entities, override.Model.Entities,
		func(_, o config.EntityConfig) config.EntityConfig { return o })
	out.Rules = union(base.Rules, override.Rules, mergeRule)

	return out
}

func replaceIfSet(current, override []string) []string {
	if override != nil {
		return slices.Clone(override)
	}
	return current
}

// union copies base and adds override, combining keys present in both.
// It never aliases either input map.
func union[V any](base, override map[string]V, combine func(b, o V) V) map[string]V {
	if base == nil && override == nil {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]V, len(override))
	}
	for key, o := range override {
		if b, ok := out[key]; ok {
			o = combine(b, o)
		}
		out[key] = o
	}
	return out
}

func mergeRule(base, override config.RuleConfig) config.RuleConfig {
	if override.Enabled != nil {
		base.Enabled = override.Enabled
	}
	if override.Severity != nil {
		base.Severity = override.Severity
	}
	if override.AutoFix != nil {
		base.AutoFix = override.AutoFix
	}
	return base
}
