package rewrite

import (
	"errors"

	"github.com/yaklabco/eflint/pkg/csast"
)

// ErrNoAnchor is returned when an expression has no enclosing block-level
// statement, as in expression-bodied members.
var ErrNoAnchor = errors.New("no enclosing block statement")

// StatementAnchor returns the nearest ancestor-or-self of n that is a
// statement directly inside a block, switch section or the top-level
// program, along with that container. crossesLambda reports whether a lambda
// lies between n and the anchor.
func StatementAnchor(n *csast.Node) (anchor, container *csast.Node, crossesLambda bool, err error) {
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		parent := cur.Parent
		switch {
		case parent.Kind == csast.NodeBlock, parent.Kind == csast.NodeSwitchSection:
			return cur, parent, crossesLambda, nil
		case parent.Kind == csast.NodeCompilationUnit && cur.Type == "global_statement":
			return cur, parent, crossesLambda, nil
		}

		if cur != n && cur.Kind == csast.NodeLambda {
			crossesLambda = true
		}
		switch parent.Kind {
		case csast.NodeMethod, csast.NodeProperty, csast.NodeLocalFunction, csast.NodeField, csast.NodeTypeDeclaration:
			if cur.Kind != csast.NodeBlock {
				return nil, nil, false, ErrNoAnchor
			}
		}
	}
	return nil, nil, false, ErrNoAnchor
}

// DeclarationScope returns the node whose declarations share a local scope
// with statements in container. Sections of a switch share one scope.
func DeclarationScope(container *csast.Node) *csast.Node {
	if container != nil && container.Kind == csast.NodeSwitchSection && container.Parent != nil {
		return container.Parent
	}
	return container
}

// DeclaredNames returns every identifier declared anywhere under root:
// locals, parameters, loop and catch variables, pattern variables, lambda
// parameters and local functions.
func DeclaredNames(root *csast.Node) Blacklist {
	names := NewBlacklist()
	_ = csast.Walk(root, func(n *csast.Node) error {
		switch n.Kind {
		case csast.NodeVariableDeclarator, csast.NodeParameter, csast.NodeForEach,
			csast.NodeCatchDeclaration, csast.NodeDeclarationExpression, csast.NodeLocalFunction:
			if ident := csast.DeclaredName(n); ident != nil {
				names.Add(csast.SimpleName(ident))
			}
		case csast.NodeLambda:
			for _, param := range csast.LambdaParameters(n) {
				names.Add(csast.SimpleName(param))
			}
		}
		return nil
	})
	return names
}
