package reporter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/runner"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifToolName  = "eflint"
	sarifToolURI   = "https://github.com/yaklabco/eflint"
)

// SARIFOutput is a SARIF 2.1.0 log with a single run.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is one invocation of eflint.
type SARIFRun struct {
	Tool              SARIFTool              `json:"tool"`
	AutomationDetails SARIFAutomationDetails `json:"automationDetails"`
	Invocations       []SARIFInvocation      `json:"invocations,omitempty"`
	Results           []SARIFResult          `json:"results"`
}

// SARIFAutomationDetails carries a GUID unique to each run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid"`
}

// SARIFInvocation reports file failures and unanswered symbol queries as
// notifications.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule is a reportingDescriptor. FullDescription and Properties are
// only filled for rules found in the default registry.
type SARIFRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	ShortDescription SARIFMessage     `json:"shortDescription,omitempty"`
	FullDescription  *SARIFMessage    `json:"fullDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any   `json:"properties,omitempty"`
}

type SARIFRuleConfig struct {
	Level string `json:"level"`
}

type SARIFResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    SARIFMessage    `json:"message"`
	Locations  []SARIFLocation `json:"locations"`
	Properties map[string]any  `json:"properties,omitempty"`
}

// SARIFMessage is also used for multiformat descriptions; only text is set.
type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion uses 1-based lines and columns. Byte offsets are omitted for
// empty spans.
type SARIFRegion struct {
	StartLine   int  `json:"startLine"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFReporter writes results as a SARIF log for code-scanning uploads.
type SARIFReporter struct {
	opts Options
}

// NewSARIFReporter creates a SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{opts: opts}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	run := r.newRun()
	if result != nil {
		inv := SARIFInvocation{ExecutionSuccessful: !result.HasErrors()}
		seen := make(map[string]bool)
		for _, outcome := range result.Files {
			r.addFile(&run, &inv, seen, outcome)
		}
		run.Invocations = []SARIFInvocation{inv}
	}

	enc := json.NewEncoder(r.opts.Writer)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	doc := SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}
	return len(run.Results), nil
}

func (r *SARIFReporter) newRun() SARIFRun {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}
	return SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           sarifToolName,
			Version:        version,
			InformationURI: sarifToolURI,
			Rules:          []SARIFRule{},
		}},
		AutomationDetails: SARIFAutomationDetails{GUID: uuid.NewString()},
		Results:           []SARIFResult{},
	}
}

func (r *SARIFReporter) addFile(run *SARIFRun, inv *SARIFInvocation, seen map[string]bool, outcome runner.FileOutcome) {
	uri := r.opts.displayPath(outcome.Path)
	notify := func(level, text string, line int) {
		inv.ToolExecutionNotifications = append(inv.ToolExecutionNotifications, SARIFNotification{
			Level:     level,
			Message:   SARIFMessage{Text: text},
			Locations: []SARIFLocation{location(uri, SARIFRegion{StartLine: max(line, 1)})},
		})
	}

	if outcome.Error != nil {
		notify("error", outcome.Error.Error(), 1)
		return
	}
	if outcome.Result == nil || outcome.Result.FileResult == nil {
		return
	}

	for _, qe := range outcome.Result.QueryErrors {
		notify("warning", qe.Err.Error(), qe.Line)
	}

	for _, d := range outcome.Result.Diagnostics {
		if !seen[d.RuleID] {
			seen[d.RuleID] = true
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, describeRule(d))
		}

		res := SARIFResult{
			RuleID:    d.RuleID,
			Level:     sarifLevel(d.Severity),
			Message:   SARIFMessage{Text: d.Message},
			Locations: []SARIFLocation{location(uri, diagnosticRegion(d))},
		}
		if d.Fixable {
			res.Properties = map[string]any{"fixable": true}
		}
		run.Results = append(run.Results, res)
	}
}

func diagnosticRegion(d lint.Diagnostic) SARIFRegion {
	region := SARIFRegion{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
	if length := d.EndOffset - d.StartOffset; length > 0 {
		offset := d.StartOffset
		region.ByteOffset = &offset
		region.ByteLength = &length
	}
	return region
}

func describeRule(d lint.Diagnostic) SARIFRule {
	rule := SARIFRule{
		ID:               d.RuleID,
		Name:             d.RuleName,
		ShortDescription: SARIFMessage{Text: d.Message},
		DefaultConfig:    &SARIFRuleConfig{Level: sarifLevel(d.Severity)},
	}
	if registered, ok := lint.DefaultRegistry.Lookup(d.RuleID); ok {
		rule.FullDescription = &SARIFMessage{Text: registered.Description()}
		rule.DefaultConfig.Level = sarifLevel(registered.DefaultSeverity())
		rule.Properties = map[string]any{"tags": registered.Tags()}
	}
	return rule
}

func location(uri string, region SARIFRegion) SARIFLocation {
	return SARIFLocation{PhysicalLocation: SARIFPhysicalLocation{
		ArtifactLocation: SARIFArtifactLocation{URI: uri},
		Region:           region,
	}}
}

func sarifLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
