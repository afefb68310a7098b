package lint

import (
	"github.com/yaklabco/eflint/pkg/csast"
)

// CallSpan returns the byte range from the invoked member name through the
// closing parenthesis of the argument list.
func CallSpan(call *csast.Node) csast.SourceRange {
	span := call.SourceRange()
	if name := csast.MemberName(call.Callee()); name != nil {
		span.StartOffset = name.StartOffset
	}
	if args := call.ArgumentList(); args != nil {
		span.EndOffset = args.EndOffset
	}
	return span
}

// LocateCall finds the invocation a diagnostic was reported on: the innermost
// invocation containing offset whose invoked name is method.
func LocateCall(file *csast.FileSnapshot, offset int, method string) *csast.Node {
	if file == nil {
		return nil
	}
	for n := csast.NodeAt(file.Root, offset); n != nil; n = n.Parent {
		if n.Kind == csast.NodeInvocation && n.InvokedName() == method &&
			CallSpan(n).StartOffset == offset {
			return n
		}
	}
	return nil
}

// IsDeferred reports whether expr is a lambda taking no parameters.
func IsDeferred(expr *csast.Node) bool {
	expr = csast.Unparenthesize(expr)
	return expr != nil && expr.Kind == csast.NodeLambda && len(csast.LambdaParameters(expr)) == 0
}
