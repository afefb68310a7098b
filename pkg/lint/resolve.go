package lint

import (
	"strings"

	"github.com/yaklabco/eflint/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether auto-fix is enabled for this rule.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules returns the rules of registry that are enabled under cfg,
// ordered by ID, with their effective severity and fix setting. A nil cfg
// leaves every rule at its defaults.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var out []ResolvedRule
	for _, rule := range registry.Rules() {
		if rr := resolveRule(rule, cfg); rr.Enabled {
			out = append(out, rr)
		}
	}
	return out
}

// resolveRule layers, from weakest to strongest: rule defaults,
// severity_default, the rule's own config entry, then --enable and
// --disable. Fixes additionally require a fixable rule, --fix or --dry-run,
// and membership in --fix-rules when that list is set.
func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}
	if cfg == nil {
		return rr
	}

	if sev := config.Severity(cfg.SeverityDefault); sev.IsValid() {
		rr.Severity = sev
	}

	if rc, ok := ruleConfig(cfg.Rules, rule); ok {
		rr.Config = &rc
		rr.Enabled = valueOr(rc.Enabled, rr.Enabled)
		if rc.Severity != nil {
			rr.Severity = config.Severity(*rc.Severity)
		}
		rr.AutoFix = rr.AutoFix && valueOr(rc.AutoFix, true)
	}

	switch {
	case namesRule(cfg.DisableRules, rule):
		rr.Enabled = false
	case namesRule(cfg.EnableRules, rule):
		rr.Enabled = true
	}

	if len(cfg.FixRules) > 0 && !namesRule(cfg.FixRules, rule) {
		rr.AutoFix = false
	}
	if !cfg.Fix && !cfg.DryRun {
		rr.AutoFix = false
	}

	return rr
}

// ruleConfig finds the entry for rule, keyed by ID or by name.
func ruleConfig(rules map[string]config.RuleConfig, rule Rule) (config.RuleConfig, bool) {
	if rc, ok := rules[rule.ID()]; ok {
		return rc, true
	}
	rc, ok := rules[rule.Name()]
	return rc, ok
}

// namesRule reports whether any of keys is rule's ID or name, ignoring case.
func namesRule(keys []string, rule Rule) bool {
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if strings.EqualFold(key, rule.ID()) || strings.EqualFold(key, rule.Name()) {
			return true
		}
	}
	return false
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
