package csast

// NodeKind classifies the type of a syntax node.
type NodeKind uint16

// Node kinds for the C# constructs the analyzers care about. Anything else
// is kept as NodeOther (or NodeStatement for statements) so the tree stays lossless.
const (
	NodeCompilationUnit NodeKind = iota

	// Declarations.
	NodeUsingDirective
	NodeNamespace
	NodeTypeDeclaration
	NodeProperty
	NodeField
	NodeMethod
	NodeLocalFunction
	NodeParameterList
	NodeParameter

	// Statements.
	NodeBlock
	NodeSwitchSection
	NodeLocalDeclaration
	NodeVariableDeclaration
	NodeVariableDeclarator
	NodeExpressionStatement
	NodeForEach
	NodeFor
	NodeUsingStatement
	NodeCatchDeclaration
	NodeStatement

	// Expressions.
	NodeInvocation
	NodeMemberAccess
	NodeArgumentList
	NodeArgument
	NodeIdentifier
	NodeStringLiteral
	NodeNumericLiteral
	NodeLiteral
	NodeLambda
	NodeObjectCreation
	NodeParenthesized
	NodeDeclarationExpression
	NodeArrowClause

	// Types.
	NodeGenericName
	NodeQualifiedName
	NodeTypeArgumentList
	NodePredefinedType
	NodeImplicitType
	NodeArrayType
	NodeNullableType

	// Parse errors and unclassified syntax.
	NodeError
	NodeOther
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	NodeCompilationUnit:       "CompilationUnit",
	NodeUsingDirective:        "UsingDirective",
	NodeNamespace:             "Namespace",
	NodeTypeDeclaration:       "TypeDeclaration",
	NodeProperty:              "Property",
	NodeField:                 "Field",
	NodeMethod:                "Method",
	NodeLocalFunction:         "LocalFunction",
	NodeParameterList:         "ParameterList",
	NodeParameter:             "Parameter",
	NodeBlock:                 "Block",
	NodeSwitchSection:         "SwitchSection",
	NodeLocalDeclaration:      "LocalDeclaration",
	NodeVariableDeclaration:   "VariableDeclaration",
	NodeVariableDeclarator:    "VariableDeclarator",
	NodeExpressionStatement:   "ExpressionStatement",
	NodeForEach:               "ForEach",
	NodeFor:                   "For",
	NodeUsingStatement:        "UsingStatement",
	NodeCatchDeclaration:      "CatchDeclaration",
	NodeStatement:             "Statement",
	NodeInvocation:            "Invocation",
	NodeMemberAccess:          "MemberAccess",
	NodeArgumentList:          "ArgumentList",
	NodeArgument:              "Argument",
	NodeIdentifier:            "Identifier",
	NodeStringLiteral:         "StringLiteral",
	NodeNumericLiteral:        "NumericLiteral",
	NodeLiteral:               "Literal",
	NodeLambda:                "Lambda",
	NodeObjectCreation:        "ObjectCreation",
	NodeParenthesized:         "Parenthesized",
	NodeDeclarationExpression: "DeclarationExpression",
	NodeArrowClause:           "ArrowClause",
	NodeGenericName:           "GenericName",
	NodeQualifiedName:         "QualifiedName",
	NodeTypeArgumentList:      "TypeArgumentList",
	NodePredefinedType:        "PredefinedType",
	NodeImplicitType:          "ImplicitType",
	NodeArrayType:             "ArrayType",
	NodeNullableType:          "NullableType",
	NodeError:                 "Error",
	NodeOther:                 "Other",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "NodeKind(?)"
}

// Node represents a single node in the C# syntax tree.
// Nodes form a tree structure with parent/child/sibling relationships.
// Only named grammar nodes are kept; punctuation and comments live in the
// source bytes between child spans.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Type is the grammar's node type name (e.g. "invocation_expression").
	Type string

	// Field is the role this node plays in its parent (e.g. "name", "body"),
	// empty when the grammar does not name it.
	Field string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Byte span in File.Content, end exclusive.
	StartOffset int
	EndOffset   int

	// File is a back-reference to the containing FileSnapshot.
	File *FileSnapshot
}

// IsType returns true if this node denotes a type syntax.
func (n *Node) IsType() bool {
	switch n.Kind {
	case NodeGenericName, NodeQualifiedName, NodePredefinedType, NodeImplicitType,
		NodeArrayType, NodeNullableType:
		return true
	default:
		return false
	}
}

// IsExpression returns true if this node is one of the expression kinds.
func (n *Node) IsExpression() bool {
	switch n.Kind {
	case NodeInvocation, NodeMemberAccess, NodeIdentifier, NodeStringLiteral,
		NodeNumericLiteral, NodeLiteral, NodeLambda, NodeObjectCreation,
		NodeParenthesized, NodeDeclarationExpression, NodeGenericName:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// ChildByField returns the first child playing the given role, or nil.
func (n *Node) ChildByField(field string) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ChildrenByKind returns the direct children of the given kind.
func (n *Node) ChildrenByKind(kind NodeKind) []*Node {
	var out []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}
