package csast

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Callee returns the expression being invoked by an invocation node.
func (n *Node) Callee() *Node {
	if n == nil || n.Kind != NodeInvocation {
		return nil
	}
	if callee := n.ChildByField("function"); callee != nil {
		return callee
	}
	return n.FirstChild
}

// ArgumentList returns the argument list of an invocation or object creation.
func (n *Node) ArgumentList() *Node {
	if n == nil {
		return nil
	}
	if list := n.ChildByField("arguments"); list != nil && list.Kind == NodeArgumentList {
		return list
	}
	return n.FirstChildOfKind(NodeArgumentList)
}

// Arguments returns the argument nodes of an invocation, in order.
func (n *Node) Arguments() []*Node {
	list := n.ArgumentList()
	if list == nil {
		return nil
	}
	return list.ChildrenByKind(NodeArgument)
}

// ArgumentExpression returns the value expression of an argument node,
// skipping any name-colon prefix.
func ArgumentExpression(arg *Node) *Node {
	if arg == nil {
		return nil
	}
	if arg.Kind != NodeArgument {
		return arg
	}
	return arg.LastChild
}

// Receiver returns the expression left of the dot in a member access.
func Receiver(memberAccess *Node) *Node {
	if memberAccess == nil || memberAccess.Kind != NodeMemberAccess {
		return nil
	}
	if expr := memberAccess.ChildByField("expression"); expr != nil {
		return expr
	}
	return memberAccess.FirstChild
}

// MemberName returns the name node of a member access, or the callee itself
// when it is a bare (possibly generic) name.
func MemberName(callee *Node) *Node {
	if callee == nil {
		return nil
	}
	switch callee.Kind {
	case NodeMemberAccess:
		if name := callee.ChildByField("name"); name != nil {
			return name
		}
		return callee.LastChild
	case NodeIdentifier, NodeGenericName:
		return callee
	default:
		return nil
	}
}

// SimpleName returns the identifier text of a name node, dropping type arguments.
func SimpleName(name *Node) string {
	if name == nil {
		return ""
	}
	switch name.Kind {
	case NodeIdentifier:
		return strings.TrimPrefix(name.TextString(), "@")
	case NodeGenericName:
		if ident := name.FirstChildOfKind(NodeIdentifier); ident != nil {
			return SimpleName(ident)
		}
		text := name.TextString()
		if idx := strings.IndexByte(text, '<'); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	default:
		return ""
	}
}

// InvokedName returns the simple method name an invocation calls.
func (n *Node) InvokedName() string {
	return SimpleName(MemberName(n.Callee()))
}

// DeclaredName returns the identifier introduced by a declaring node
// (parameter, variable declarator, foreach, catch declaration, local function,
// type or member declaration), or nil.
func DeclaredName(n *Node) *Node {
	if n == nil {
		return nil
	}
	if name := n.ChildByField("name"); name != nil && name.Kind == NodeIdentifier {
		return name
	}
	switch n.Kind {
	case NodeForEach:
		if left := n.ChildByField("left"); left != nil && left.Kind == NodeIdentifier {
			return left
		}
	case NodeVariableDeclarator, NodeCatchDeclaration, NodeParameter, NodeDeclarationExpression:
		var last *Node
		for child := n.FirstChild; child != nil; child = child.Next {
			if child.Kind == NodeIdentifier && child.Field == "" {
				last = child
				if n.Kind == NodeVariableDeclarator {
					return child
				}
			}
		}
		return last
	}
	return nil
}

// LambdaParameters returns the identifier nodes a lambda declares.
func LambdaParameters(lambda *Node) []*Node {
	if lambda == nil || lambda.Kind != NodeLambda {
		return nil
	}
	params := lambda.ChildByField("parameters")
	if params == nil {
		params = lambda.FirstChildOfKind(NodeParameterList)
		if params == nil {
			params = lambda.FirstChildOfKind(NodeIdentifier)
		}
	}
	if params == nil {
		return nil
	}
	if params.Kind == NodeIdentifier {
		return []*Node{params}
	}
	var out []*Node
	for _, param := range params.ChildrenByKind(NodeParameter) {
		if name := DeclaredName(param); name != nil {
			out = append(out, name)
		}
	}
	return out
}

// LambdaBody returns the body of a lambda (an expression or a block).
func LambdaBody(lambda *Node) *Node {
	if lambda == nil || lambda.Kind != NodeLambda {
		return nil
	}
	if body := lambda.ChildByField("body"); body != nil {
		return body
	}
	return lambda.LastChild
}

// Unparenthesize strips any number of enclosing parentheses from an expression.
func Unparenthesize(n *Node) *Node {
	for n != nil && n.Kind == NodeParenthesized && n.FirstChild != nil {
		n = n.FirstChild
	}
	return n
}

// DecodeStringLiteral returns the value of a string literal node with quotes
// stripped and escapes resolved. Interpolated strings are not literals.
func DecodeStringLiteral(n *Node) (string, bool) {
	if n == nil || n.Kind != NodeStringLiteral {
		return "", false
	}
	text := n.TextString()
	text = strings.TrimSuffix(strings.TrimSuffix(text, "u8"), "U8")

	switch {
	case strings.HasPrefix(text, `"""`):
		return decodeRaw(text), true
	case strings.HasPrefix(text, `@"`):
		if len(text) < 3 || !strings.HasSuffix(text, `"`) {
			return "", false
		}
		return strings.ReplaceAll(text[2:len(text)-1], `""`, `"`), true
	case strings.HasPrefix(text, `"`):
		if len(text) < 2 || !strings.HasSuffix(text, `"`) {
			return "", false
		}
		return unescape(text[1 : len(text)-1]), true
	default:
		return "", false
	}
}

func decodeRaw(text string) string {
	quotes := 0
	for quotes < len(text) && text[quotes] == '"' {
		quotes++
	}
	if len(text) < 2*quotes {
		return ""
	}
	body := text[quotes : len(text)-quotes]
	if !strings.Contains(body, "\n") {
		return body
	}

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return body
	}
	indent := lines[len(lines)-1]
	lines = lines[1 : len(lines)-1]
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n")
}

//nolint:gochecknoglobals // Read-only lookup table.
var simpleEscapes = map[byte]string{
	'\'': "'", '"': `"`, '\\': `\`, '0': "\x00", 'a': "\a", 'b': "\b",
	'f': "\f", 'n': "\n", 'r': "\r", 't': "\t", 'v': "\v", 'e': "\x1b",
}

func unescape(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}

	var out strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 >= len(body) {
			out.WriteByte(body[i])
			continue
		}
		esc := body[i+1]
		if repl, ok := simpleEscapes[esc]; ok {
			out.WriteString(repl)
			i++
			continue
		}

		var digits int
		switch esc {
		case 'u':
			digits = 4
		case 'U':
			digits = 8
		case 'x':
			digits = hexRun(body[i+2:], 4)
		}
		if digits == 0 || i+2+digits > len(body) {
			out.WriteByte(body[i])
			continue
		}
		code, err := strconv.ParseUint(body[i+2:i+2+digits], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			out.WriteByte(body[i])
			continue
		}
		out.WriteRune(rune(code))
		i += 1 + digits
	}
	return out.String()
}

func hexRun(s string, limit int) int {
	n := 0
	for n < len(s) && n < limit && isHex(s[n]) {
		n++
	}
	return n
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
