package configloader

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

// ValidationError is one problem with a loaded configuration.
type ValidationError struct {
	Field   string // e.g. rules.EF1000.severity
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult separates fatal problems from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(field, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// oneOf records an error when a non-empty value is not in allowed.
func oneOf[T ~string](r *ValidationResult, field string, value T, allowed ...T) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	r.errorf(field, "%q is not one of %s", value, strings.Join(names, ", "))
}

// Validate checks cfg after every layer has been merged. Unknown rule keys
// are warnings. Everything else is an error.
func Validate(cfg *config.Config) *ValidationResult {
	r := &ValidationResult{}
	if cfg == nil {
		return r
	}

	severities := []string{string(config.SeverityError), string(config.SeverityWarning), string(config.SeverityInfo)}

	oneOf(r, "severity_default", cfg.SeverityDefault, severities...)
	oneOf(r, "format", cfg.Format, config.FormatText, config.FormatJSON, config.FormatSARIF, config.FormatDiff)
	oneOf(r, "rule_format", cfg.RuleFormat, config.RuleFormatName, config.RuleFormatID, config.RuleFormatCombined)
	oneOf(r, "backups.mode", cfg.Backups.Mode, "sidecar", "none")

	if cfg.Jobs < 0 {
		r.errorf("jobs", "must be >= 0, got %d", cfg.Jobs)
	}
	if cfg.FixOptions.MaxPasses < 0 {
		r.errorf("fix.max_passes", "must be >= 0, got %d", cfg.FixOptions.MaxPasses)
	}

	for i, ext := range cfg.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			r.errorf(fmt.Sprintf("extensions[%d]", i), "%q must start with a dot, e.g. .cs", ext)
		}
	}
	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			r.errorf(fmt.Sprintf("ignore[%d]", i), "bad glob %q: %v", pattern, err)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		if _, ok := lint.DefaultRegistry.Lookup(key); !ok {
			r.warnf("rules."+key, "unknown rule %q is ignored", key)
		}
		if sev := cfg.Rules[key].Severity; sev != nil {
			oneOf(r, "rules."+key+".severity", *sev, severities...)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Model.Entities)) {
		field := "model.entities." + name
		if name == "" || strings.ContainsAny(name, " \t.") {
			r.errorf(field, "use the simple type name")
		}
		props := cfg.Model.Entities[name].Properties
		for _, prop := range slices.Sorted(maps.Keys(props)) {
			if props[prop] == "" {
				r.errorf(field+".properties."+prop, "type must not be empty")
			}
		}
	}

	return r
}
