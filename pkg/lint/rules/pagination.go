package rules

import (
	"fmt"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/rewrite"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// PaginationArgumentRule flags Skip and Take calls on a query that pass the
// count by value. The value is then inlined into the SQL text and every
// distinct count compiles a new query plan; the lambda overloads send it as
// a parameter instead.
type PaginationArgumentRule struct {
	lint.BaseRule
}

// NewPaginationArgumentRule creates the EF1002 rule.
func NewPaginationArgumentRule() *PaginationArgumentRule {
	return &PaginationArgumentRule{
		BaseRule: lint.NewBaseRule(config.RuleInfo{
			ID:          "EF1002",
			Name:        "pagination-argument",
			Description: "Skip and Take on a query should use the lambda overload",
			Tags:        []string{categoryUsage, "pagination"},
			Enabled:     true,
			CanFix:      true,
		}),
	}
}

// Apply reports Queryable.Skip and Queryable.Take calls with an argument
// that is not already a parameterless lambda.
func (r *PaginationArgumentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, site := range ctx.CallSites() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !calls(site.Method, "Skip", semantic.ContainerQueryable) &&
			!calls(site.Method, "Take", semantic.ContainerQueryable) {
			continue
		}
		arg := site.FirstArgument()
		if arg == nil || lint.IsDeferred(arg) {
			continue
		}

		diags = append(diags, lint.NewCallDiagnostic(r.ID(), site.Node,
			fmt.Sprintf("Use the lambda overload of %s so the value is parameterized", site.Method.Name)).
			WithSuggestion(site.Method.Name+"(() => "+arg.TextString()+")").
			WithFix().
			Build())
	}

	return diags, nil
}

// Fix wraps the argument in a parameterless lambda. A bare identifier is
// wrapped in place; any other expression is first hoisted into a new local
// declared just before the enclosing statement.
func (r *PaginationArgumentRule) Fix(ctx *lint.RuleContext, call *csast.Node, _ *lint.Diagnostic) (*rewrite.Plan, error) {
	args := call.Arguments()
	if len(args) == 0 {
		return nil, nil
	}
	arg := csast.ArgumentExpression(args[0])
	if arg == nil || lint.IsDeferred(arg) {
		return nil, nil
	}

	plan := rewrite.NewPlan(ctx.File)
	plan.EnsureImport(semantic.NamespaceEntity)

	if arg.Kind == csast.NodeIdentifier {
		plan.ReplaceNode(arg, "() => "+arg.TextString())
		return plan, nil
	}

	anchor, container, crossesLambda, err := rewrite.StatementAnchor(call)
	if err != nil {
		return nil, err
	}
	// Hoisting out of a lambda would move references to its parameters out
	// of scope; only constants are safe to lift.
	if crossesLambda && !isLiteral(arg) {
		return nil, nil
	}

	scope := rewrite.DeclarationScope(container)
	name, err := rewrite.Allocate(ctx.Model, call.StartOffset, rewrite.DeclaredNames(scope))
	if err != nil {
		return nil, err
	}

	plan.InsertStatementBefore(anchor, "var "+name+" = "+arg.TextString()+";")
	plan.ReplaceNode(arg, "() => "+name)
	return plan, nil
}

func isLiteral(n *csast.Node) bool {
	n = csast.Unparenthesize(n)
	if n == nil {
		return false
	}
	switch n.Kind {
	case csast.NodeNumericLiteral, csast.NodeStringLiteral, csast.NodeLiteral:
		return true
	default:
		return false
	}
}
