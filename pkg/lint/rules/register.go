package rules

import (
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewIncludeStringPathRule())     // EF1000
	registry.Register(NewProjectionConstructorRule()) // EF1001
	registry.Register(NewPaginationArgumentRule())    // EF1002
}

// RuleInfos describes the rules in registry for config templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		if described, ok := rule.(interface{ Info() config.RuleInfo }); ok {
			infos = append(infos, described.Info())
			continue
		}
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}

var (
	_ lint.Fixer = (*IncludeStringPathRule)(nil)
	_ lint.Fixer = (*ProjectionConstructorRule)(nil)
	_ lint.Fixer = (*PaginationArgumentRule)(nil)
)
