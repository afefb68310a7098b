package rules

import (
	"fmt"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/rewrite"
	"github.com/yaklabco/eflint/pkg/semantic"
)

const projectionMessage = "Select constructs a new object inside a query; call AsEnumerable() before projecting"

// ProjectionConstructorRule flags Select calls on a query whose selector
// directly constructs an object. The query provider cannot translate the
// constructor call; the fix moves the projection to LINQ to Objects.
type ProjectionConstructorRule struct {
	lint.BaseRule
}

// NewProjectionConstructorRule creates the EF1001 rule.
func NewProjectionConstructorRule() *ProjectionConstructorRule {
	return &ProjectionConstructorRule{
		BaseRule: lint.NewBaseRule(config.RuleInfo{
			ID:          "EF1001",
			Name:        "projection-constructor",
			Description: "Select on a query should not construct objects with a constructor call",
			Tags:        []string{categoryUsage, "projection"},
			Enabled:     true,
			CanFix:      true,
		}),
	}
}

// Apply reports Queryable.Select calls whose selector body is a constructor call.
func (r *ProjectionConstructorRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, site := range ctx.CallSites() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !calls(site.Method, "Select", semantic.ContainerQueryable) {
			continue
		}
		if !constructsInSelector(site.FirstArgument()) {
			continue
		}

		diags = append(diags, lint.NewCallDiagnostic(r.ID(), site.Node, projectionMessage).
			WithSuggestion("AsEnumerable().Select(...)").
			WithFix().
			Build())
	}

	return diags, nil
}

// constructsInSelector reports whether expr is a one-parameter lambda whose
// body is itself an object creation. Constructions nested deeper in the body
// do not count.
func constructsInSelector(expr *csast.Node) bool {
	lambda := csast.Unparenthesize(expr)
	if lambda == nil || lambda.Kind != csast.NodeLambda || len(csast.LambdaParameters(lambda)) != 1 {
		return false
	}
	body := csast.LambdaBody(lambda)
	return body != nil && body.Kind == csast.NodeObjectCreation
}

// Fix appends .AsEnumerable() to the receiver of the Select call.
func (r *ProjectionConstructorRule) Fix(ctx *lint.RuleContext, call *csast.Node, _ *lint.Diagnostic) (*rewrite.Plan, error) {
	callee := call.Callee()
	if callee == nil || callee.Kind != csast.NodeMemberAccess {
		return nil, nil
	}
	receiver := csast.Receiver(callee)
	if receiver == nil {
		return nil, nil
	}

	plan := rewrite.NewPlan(ctx.File)
	plan.InsertAfter(receiver, ".AsEnumerable()")
	plan.EnsureImport(semantic.NamespaceLinq)
	return plan, nil
}
