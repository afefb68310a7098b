package rules

import (
	"fmt"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/rewrite"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// IncludeStringPathRule flags Include calls that name the navigation path
// with a string. The fix rewrites the path into the equivalent lambda, so
// renames are caught by the compiler.
type IncludeStringPathRule struct {
	lint.BaseRule
}

// NewIncludeStringPathRule creates the EF1000 rule.
func NewIncludeStringPathRule() *IncludeStringPathRule {
	return &IncludeStringPathRule{
		BaseRule: lint.NewBaseRule(config.RuleInfo{
			ID:          "EF1000",
			Name:        "include-string-path",
			Description: "Include path should be a lambda expression rather than a string",
			Tags:        []string{categoryUsage, "include"},
			Enabled:     true,
			CanFix:      true,
		}),
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var includeContainers = []string{
	semantic.ContainerEntityQueryPrefix,
	semantic.ContainerQueryExtensions,
}

// Apply reports Include calls whose first argument is a string literal.
func (r *IncludeStringPathRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, site := range ctx.CallSites() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !calls(site.Method, "Include", includeContainers...) {
			continue
		}

		// Only a bare literal counts; ("Orders") is left alone.
		path, ok := csast.DecodeStringLiteral(site.FirstArgument())
		if !ok {
			continue
		}

		diags = append(diags, lint.NewCallDiagnostic(r.ID(), site.Node,
			fmt.Sprintf(`Include path "%s" should be a lambda expression`, path)).
			WithFix().
			Build())
	}

	return diags, nil
}

// Fix replaces the string path with a lambda over the query's element type.
// Paths that do not resolve against the model leave the call unchanged.
func (r *IncludeStringPathRule) Fix(ctx *lint.RuleContext, call *csast.Node, _ *lint.Diagnostic) (*rewrite.Plan, error) {
	method, err := ctx.Model.ResolveMethod(call)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", call.InvokedName(), err)
	}

	args := call.Arguments()
	if len(args) == 0 {
		return nil, nil
	}
	literal := csast.ArgumentExpression(args[0])
	path, ok := csast.DecodeStringLiteral(literal)
	if !ok {
		return nil, nil
	}

	element := method.ReceiverType.Arg(0)
	if element == nil {
		return nil, fmt.Errorf("%w: element type of %s unknown", rewrite.ErrUnresolvedSegment, method.ReceiverType)
	}

	names := rewrite.NewAllocator(ctx.Model, call.StartOffset, enclosingNames(call))
	lambda, _, err := rewrite.IncludeLambda(ctx.Model, names, element, path)
	if err != nil {
		return nil, err
	}

	plan := rewrite.NewPlan(ctx.File)
	plan.ReplaceNode(literal, lambda)
	plan.EnsureImport(semantic.NamespaceEntity)
	return plan, nil
}

// enclosingNames returns the names declared in the block that holds call.
// A new lambda parameter must not reuse any of them.
func enclosingNames(call *csast.Node) rewrite.Blacklist {
	_, container, _, err := rewrite.StatementAnchor(call)
	if err != nil {
		return rewrite.NewBlacklist()
	}
	return rewrite.DeclaredNames(rewrite.DeclarationScope(container))
}
