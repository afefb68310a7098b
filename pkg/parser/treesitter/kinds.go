package treesitter

import (
	"strings"

	"github.com/yaklabco/eflint/pkg/csast"
)

// nodeKinds maps tree-sitter C# node types onto csast kinds.
//
//nolint:gochecknoglobals // Read-only lookup table.
var nodeKinds = map[string]csast.NodeKind{
	"compilation_unit":                  csast.NodeCompilationUnit,
	"using_directive":                   csast.NodeUsingDirective,
	"namespace_declaration":             csast.NodeNamespace,
	"file_scoped_namespace_declaration": csast.NodeNamespace,
	"class_declaration":                 csast.NodeTypeDeclaration,
	"struct_declaration":                csast.NodeTypeDeclaration,
	"interface_declaration":             csast.NodeTypeDeclaration,
	"record_declaration":                csast.NodeTypeDeclaration,
	"record_struct_declaration":         csast.NodeTypeDeclaration,
	"property_declaration":              csast.NodeProperty,
	"field_declaration":                 csast.NodeField,
	"method_declaration":                csast.NodeMethod,
	"constructor_declaration":           csast.NodeMethod,
	"operator_declaration":              csast.NodeMethod,
	"conversion_operator_declaration":   csast.NodeMethod,
	"accessor_declaration":              csast.NodeMethod,
	"local_function_statement":          csast.NodeLocalFunction,
	"parameter_list":                    csast.NodeParameterList,
	"parameter":                         csast.NodeParameter,
	"block":                             csast.NodeBlock,
	"switch_section":                    csast.NodeSwitchSection,
	"local_declaration_statement":       csast.NodeLocalDeclaration,
	"variable_declaration":              csast.NodeVariableDeclaration,
	"variable_declarator":               csast.NodeVariableDeclarator,
	"expression_statement":              csast.NodeExpressionStatement,
	"foreach_statement":                 csast.NodeForEach,
	"for_statement":                     csast.NodeFor,
	"using_statement":                   csast.NodeUsingStatement,
	"catch_declaration":                 csast.NodeCatchDeclaration,
	"invocation_expression":             csast.NodeInvocation,
	"member_access_expression":          csast.NodeMemberAccess,
	"argument_list":                     csast.NodeArgumentList,
	"argument":                          csast.NodeArgument,
	"identifier":                        csast.NodeIdentifier,
	"implicit_parameter":                csast.NodeIdentifier,
	"string_literal":                    csast.NodeStringLiteral,
	"verbatim_string_literal":           csast.NodeStringLiteral,
	"raw_string_literal":                csast.NodeStringLiteral,
	"integer_literal":                   csast.NodeNumericLiteral,
	"real_literal":                      csast.NodeNumericLiteral,
	"boolean_literal":                   csast.NodeLiteral,
	"character_literal":                 csast.NodeLiteral,
	"null_literal":                      csast.NodeLiteral,
	"lambda_expression":                 csast.NodeLambda,
	"object_creation_expression":        csast.NodeObjectCreation,
	"parenthesized_expression":          csast.NodeParenthesized,
	"declaration_expression":            csast.NodeDeclarationExpression,
	"declaration_pattern":               csast.NodeDeclarationExpression,
	"arrow_expression_clause":           csast.NodeArrowClause,
	"generic_name":                      csast.NodeGenericName,
	"qualified_name":                    csast.NodeQualifiedName,
	"type_argument_list":                csast.NodeTypeArgumentList,
	"predefined_type":                   csast.NodePredefinedType,
	"implicit_type":                     csast.NodeImplicitType,
	"array_type":                        csast.NodeArrayType,
	"nullable_type":                     csast.NodeNullableType,
	"ERROR":                             csast.NodeError,
}

func kindOf(nodeType string) csast.NodeKind {
	if kind, ok := nodeKinds[nodeType]; ok {
		return kind
	}
	if strings.HasSuffix(nodeType, "_statement") {
		return csast.NodeStatement
	}
	return csast.NodeOther
}
