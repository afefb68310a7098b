package lint

import (
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
)

// DiagnosticBuilder assembles a Diagnostic with chained setters.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts a diagnostic covering node. A nil node gives a
// diagnostic without a location.
func NewDiagnostic(ruleID string, node *csast.Node, message string) *DiagnosticBuilder {
	b := &DiagnosticBuilder{diag: Diagnostic{RuleID: ruleID, Message: message}}
	if node != nil {
		b.locate(node.File, node.SourceRange())
	}
	return b
}

// NewCallDiagnostic starts a diagnostic on an invocation, spanning
// Method(args) without the receiver.
func NewCallDiagnostic(ruleID string, call *csast.Node, message string) *DiagnosticBuilder {
	b := &DiagnosticBuilder{diag: Diagnostic{RuleID: ruleID, Message: message, MethodName: call.InvokedName()}}
	b.locate(call.File, CallSpan(call))
	return b
}

func (b *DiagnosticBuilder) locate(file *csast.FileSnapshot, span csast.SourceRange) {
	b.diag.StartOffset, b.diag.EndOffset = span.StartOffset, span.EndOffset
	if file == nil {
		return
	}
	pos := file.Position(span)
	b.diag.FilePath = file.Path
	b.diag.StartLine, b.diag.StartColumn = pos.StartLine, pos.StartColumn
	b.diag.EndLine, b.diag.EndColumn = pos.EndLine, pos.EndColumn
}

func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix marks the diagnostic fixable.
func (b *DiagnosticBuilder) WithFix() *DiagnosticBuilder {
	b.diag.Fixable = true
	return b
}

func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
