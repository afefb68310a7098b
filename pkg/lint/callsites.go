package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/rewrite"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// CallSite is an invocation together with the method the model resolved it to.
//
// Call sites are collected once per file and shared by every rule. Rules must
// treat the slice and its contents as read-only.
type CallSite struct {
	// Node is the invocation expression.
	Node *csast.Node

	// Method is the resolved target.
	Method *semantic.Method

	// Arguments are the argument value expressions, in order.
	Arguments []*csast.Node

	// Scope is the enclosing block-level statement, or nil for calls in
	// expression-bodied members and field initializers.
	Scope *csast.Node
}

// FirstArgument returns the first argument expression, or nil.
func (s CallSite) FirstArgument() *csast.Node {
	if len(s.Arguments) == 0 {
		return nil
	}
	return s.Arguments[0]
}

// HostQueryError records a symbol query that failed for one node. The node
// produces no diagnostics and linting continues.
type HostQueryError struct {
	Path string
	Line int
	Err  error
}

func (e *HostQueryError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *HostQueryError) Unwrap() error {
	return e.Err
}

// CollectCallSites resolves every invocation under root. Unresolved calls are
// skipped silently; any other model failure is returned as a HostQueryError.
func CollectCallSites(model semantic.Model, root *csast.Node) ([]CallSite, []*HostQueryError) {
	var sites []CallSite
	var failures []*HostQueryError

	for _, call := range csast.FindByKind(root, csast.NodeInvocation) {
		method, err := model.ResolveMethod(call)
		if err != nil {
			if !errors.Is(err, semantic.ErrUnresolved) {
				failures = append(failures, newHostQueryError(call, err))
			}
			continue
		}

		site := CallSite{Node: call, Method: method}
		for _, arg := range call.Arguments() {
			site.Arguments = append(site.Arguments, csast.ArgumentExpression(arg))
		}
		if anchor, _, _, err := rewrite.StatementAnchor(call); err == nil {
			site.Scope = anchor
		}
		sites = append(sites, site)
	}

	return sites, failures
}

func newHostQueryError(n *csast.Node, err error) *HostQueryError {
	qe := &HostQueryError{Err: err}
	if n.File != nil {
		qe.Path = n.File.Path
		qe.Line, _ = n.File.LineAt(n.StartOffset)
	}
	return qe
}
