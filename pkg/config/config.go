// Package config defines core configuration types for eflint.
// These types are pure data structures; discovery and merging live in internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty"`
	AutoFix  *bool   `yaml:"auto_fix,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar"
}

// EntityConfig declares an entity type that lives outside the linted tree.
type EntityConfig struct {
	Namespace  string            `yaml:"namespace,omitempty"`
	Bases      []string          `yaml:"bases,omitempty"`
	Properties map[string]string `yaml:"properties"`
}

// ModelConfig points the semantic model at entity information.
type ModelConfig struct {
	// Schema is the path of a YAML entity schema file.
	Schema string `yaml:"schema,omitempty"`

	// Entities are declared inline and merged over Schema.
	Entities map[string]EntityConfig `yaml:"entities,omitempty"`
}

// FixConfig tunes the batch fix loop.
type FixConfig struct {
	// MaxPasses bounds the fix/re-lint iterations per file. Zero means the default.
	MaxPasses int `yaml:"max_passes,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
	FormatDiff  OutputFormat = "diff"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "include-string-path"
	RuleFormatID       RuleFormat = "id"       // "EF1000"
	RuleFormatCombined RuleFormat = "combined" // "EF1000/include-string-path"
)

// DefaultExtensions are the source file extensions linted when none are configured.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultExtensions = []string{".cs"}

// Config is the root configuration structure for eflint.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions lists the file extensions to lint.
	Extensions []string `yaml:"extensions,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// Model configures the semantic model.
	Model ModelConfig `yaml:"model,omitempty"`

	// FixOptions tunes fix mode.
	FixOptions FixConfig `yaml:"fix,omitempty"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Extensions:      append([]string(nil), DefaultExtensions...),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
