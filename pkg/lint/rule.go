// Package lint runs EF rules over parsed C# files: rule registry and
// resolution, diagnostics, the fix loop and the per-file pipeline.
package lint

import (
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/rewrite"
)

// Diagnostic is one finding. Lines and columns are 1-based; columns count
// bytes.
type Diagnostic struct {
	RuleID   string
	RuleName string // filled by the engine when the rule leaves it empty
	Message  string
	Severity config.Severity

	FilePath    string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// StartOffset and EndOffset span the member name through the argument
	// list for call diagnostics. The fix loop finds the call again by
	// StartOffset and MethodName.
	StartOffset int
	EndOffset   int
	MethodName  string

	Fixable    bool
	Suggestion string
}

// HasFix reports whether a rewrite can be requested for d.
func (d *Diagnostic) HasFix() bool { return d.Fixable }

// Rule is one analyzer. Rules are registered once and shared by every
// worker, so Apply must not keep per-call state on the receiver.
type Rule interface {
	ID() string   // stable identifier such as "EF1000"
	Name() string // kebab-case alias such as "include-string-path"
	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity
	Tags() []string
	CanFix() bool

	// Apply returns one diagnostic per violation. An error means the rule
	// itself failed, not that it found something. The snapshot and call
	// sites in ctx are shared and read-only.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}

// Fixer is implemented by rules that can rewrite what they report.
type Fixer interface {
	// Fix computes the rewrite for diag on call, the invocation diag was
	// reported on. A nil plan means nothing to change.
	// rewrite.ErrUnresolvedSegment and rewrite.ErrNoAnchor mark fixes that
	// do not apply.
	Fix(ctx *RuleContext, call *csast.Node, diag *Diagnostic) (*rewrite.Plan, error)
}
