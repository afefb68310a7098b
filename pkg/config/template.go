package config

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"text/template"
)

// TemplateOptions controls GenerateTemplate.
type TemplateOptions struct {
	// Full writes an active rules section documenting every rule instead
	// of a commented-out example.
	Full bool
}

// RuleInfo is what templates and listings need to know about a rule. The
// JSON form is what "eflint rules --format json" prints.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Enabled     bool     `json:"enabled"`
	CanFix      bool     `json:"fixable"`
	Tags        []string `json:"tags,omitempty"`
}

// RuleInfoProvider lists the registered rules. pkg/config cannot import the
// registry, so the rules package installs one at init.
type RuleInfoProvider func() []RuleInfo

//nolint:gochecknoglobals // set once by the rules package
var DefaultRuleInfoProvider RuleInfoProvider

var configTemplate = template.Must(template.New("eflint.yml").Funcs(template.FuncMap{
	"comment": commentLines,
	"join":    strings.Join,
}).Parse(`# eflint configuration
# See: https://github.com/yaklabco/eflint

# Default severity for all rules: error, warning, or info
# severity_default: warning

# Source file extensions to lint
# extensions:
#   - .cs

# File patterns to ignore (glob patterns)
# ignore:
#   - "**/Migrations/**"
#   - "**/*.Designer.cs"

# Entity types declared outside the linted sources
# model:
#   schema: eflint-schema.yml
#   entities:
#     Salesman:
#       namespace: Shop.Model
#       properties:
#         Orders: ICollection<Order>

# Batch fix tuning
# fix:
#   max_passes: 50
{{if not .Full}}
# Rule-specific configuration, keyed by ID or name
# rules:
#   EF1001:
#     severity: error
#   pagination-argument:
#     auto_fix: false
{{else}}
# Backup configuration for auto-fix
backups:
  enabled: true
  mode: sidecar

# Rule-specific configuration
rules:
{{- range .Rules}}

  # {{.ID}}: {{.Name}}
{{comment .Description}}
{{- if .Tags}}
  # Tags: {{join .Tags ", "}}
{{- end}}
{{- if .CanFix}}
  # Auto-fix: yes
{{- end}}
  {{.ID}}:
    enabled: {{.Enabled}}
    severity: {{.Severity}}
{{- end}}
{{end -}}
`))

// GenerateTemplate renders a starter .eflint.yml. The full variant needs
// DefaultRuleInfoProvider to be set.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	data := struct {
		Full  bool
		Rules []RuleInfo
	}{Full: opts.Full}

	if opts.Full {
		if DefaultRuleInfoProvider != nil {
			data.Rules = DefaultRuleInfoProvider()
		}
		if len(data.Rules) == 0 {
			return nil, errors.New("no rules available for template")
		}
		slices.SortFunc(data.Rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// commentLines wraps text at 70 columns as indented YAML comment lines.
func commentLines(text string) string {
	const width = 70
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return "  # " + strings.Join(lines, "\n  # ")
}
