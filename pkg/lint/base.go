package lint

import "github.com/yaklabco/eflint/pkg/config"

// BaseRule answers the descriptive methods of Rule from a config.RuleInfo.
// Rules embed it and implement Apply, and Fix when they are fixable.
type BaseRule struct {
	info config.RuleInfo
}

// NewBaseRule returns a BaseRule for info. A zero Severity means warning.
func NewBaseRule(info config.RuleInfo) BaseRule {
	if info.Severity == "" {
		info.Severity = config.SeverityWarning
	}
	return BaseRule{info: info}
}

// Info returns the rule's registration data.
func (r *BaseRule) Info() config.RuleInfo { return r.info }

func (r *BaseRule) ID() string                       { return r.info.ID }
func (r *BaseRule) Name() string                     { return r.info.Name }
func (r *BaseRule) Description() string              { return r.info.Description }
func (r *BaseRule) DefaultEnabled() bool             { return r.info.Enabled }
func (r *BaseRule) DefaultSeverity() config.Severity { return r.info.Severity }
func (r *BaseRule) Tags() []string                   { return r.info.Tags }
func (r *BaseRule) CanFix() bool                     { return r.info.CanFix }
