package semantic

import (
	"github.com/yaklabco/eflint/pkg/csast"
)

// LookupSymbols returns every symbol named name visible at offset: parameters
// of enclosing lambdas and methods, locals of enclosing blocks (a local is in
// scope throughout its block), loop, catch and using variables, members of
// enclosing types, and indexed type names.
func (m *FileModel) LookupSymbols(offset int, name string) ([]Symbol, error) {
	node := csast.NodeAt(m.snapshot.Root, offset)
	if node == nil {
		return nil, &QueryError{Op: "lookup symbols", Offset: offset, Err: ErrOutOfRange}
	}

	var out []Symbol
	for n := node; n != nil; n = n.Parent {
		out = append(out, declaredIn(n, name)...)
	}
	if m.index.HasType(name) {
		out = append(out, Symbol{Name: name, Kind: SymbolType})
	}
	return out, nil
}

// declaredIn returns the symbols named name that scope node n introduces.
func declaredIn(n *csast.Node, name string) []Symbol {
	var out []Symbol
	add := func(kind SymbolKind, ident *csast.Node, t *Type, decl *csast.Node) {
		if ident != nil && csast.SimpleName(ident) == name {
			out = append(out, Symbol{Name: name, Kind: kind, Type: t, Declaration: decl})
		}
	}

	switch n.Kind {
	case csast.NodeLambda:
		for _, param := range csast.LambdaParameters(n) {
			var t *Type
			if param.Parent != nil && param.Parent.Kind == csast.NodeParameter {
				t = TypeOfSyntax(param.Parent.ChildByField("type"))
			}
			add(SymbolParameter, param, t, param)
		}

	case csast.NodeMethod, csast.NodeLocalFunction, csast.NodeTypeDeclaration:
		if params := parameterList(n); params != nil {
			for _, param := range params.ChildrenByKind(csast.NodeParameter) {
				add(SymbolParameter, csast.DeclaredName(param), TypeOfSyntax(param.ChildByField("type")), param)
			}
		}
		if n.Kind == csast.NodeTypeDeclaration {
			out = append(out, membersNamed(n, name)...)
		}

	case csast.NodeBlock, csast.NodeSwitchSection, csast.NodeCompilationUnit:
		for stmt := n.FirstChild; stmt != nil; stmt = stmt.Next {
			target := stmt
			if stmt.Type == "global_statement" && stmt.FirstChild != nil {
				target = stmt.FirstChild
			}
			switch target.Kind {
			case csast.NodeLocalDeclaration:
				for _, sym := range declaratorSymbols(target.FirstChildOfKind(csast.NodeVariableDeclaration)) {
					if sym.Name == name {
						out = append(out, sym)
					}
				}
			case csast.NodeLocalFunction:
				add(SymbolMethod, csast.DeclaredName(target), nil, target)
			}
			for _, decl := range patternDeclarations(target) {
				add(SymbolLocal, csast.DeclaredName(decl), TypeOfSyntax(decl.ChildByField("type")), decl)
			}
		}

	case csast.NodeForEach:
		add(SymbolLocal, csast.DeclaredName(n), TypeOfSyntax(n.ChildByField("type")), n)

	case csast.NodeFor, csast.NodeUsingStatement:
		for _, sym := range declaratorSymbols(n.FirstChildOfKind(csast.NodeVariableDeclaration)) {
			if sym.Name == name {
				out = append(out, sym)
			}
		}

	default:
		if n.Type == "catch_clause" {
			if decl := n.FirstChildOfKind(csast.NodeCatchDeclaration); decl != nil {
				add(SymbolLocal, csast.DeclaredName(decl), TypeOfSyntax(decl.ChildByField("type")), decl)
			}
		}
	}

	return out
}

func parameterList(n *csast.Node) *csast.Node {
	if params := n.ChildByField("parameters"); params != nil && params.Kind == csast.NodeParameterList {
		return params
	}
	return n.FirstChildOfKind(csast.NodeParameterList)
}

// declaratorSymbols returns one local per declarator of a variable declaration.
func declaratorSymbols(vars *csast.Node) []Symbol {
	if vars == nil {
		return nil
	}
	t := TypeOfSyntax(vars.ChildByField("type"))
	var out []Symbol
	for _, d := range vars.ChildrenByKind(csast.NodeVariableDeclarator) {
		if ident := csast.DeclaredName(d); ident != nil {
			out = append(out, Symbol{Name: csast.SimpleName(ident), Kind: SymbolLocal, Type: t, Declaration: d})
		}
	}
	return out
}

// patternDeclarations finds out-variable and pattern declarations belonging to
// a statement, without descending into nested blocks or functions.
func patternDeclarations(stmt *csast.Node) []*csast.Node {
	var out []*csast.Node
	var visit func(n *csast.Node)
	visit = func(n *csast.Node) {
		for child := n.FirstChild; child != nil; child = child.Next {
			switch child.Kind {
			case csast.NodeBlock, csast.NodeLambda, csast.NodeLocalFunction:
				continue
			case csast.NodeDeclarationExpression:
				out = append(out, child)
			}
			visit(child)
		}
	}
	visit(stmt)
	return out
}

// membersNamed returns the members of a type declaration with the given name.
func membersNamed(typeDecl *csast.Node, name string) []Symbol {
	body := typeDecl.ChildByField("body")
	if body == nil {
		for child := typeDecl.FirstChild; child != nil; child = child.Next {
			if child.Type == "declaration_list" {
				body = child
			}
		}
	}
	if body == nil {
		return nil
	}

	var out []Symbol
	for member := body.FirstChild; member != nil; member = member.Next {
		switch member.Kind {
		case csast.NodeProperty:
			if ident := csast.DeclaredName(member); ident != nil && csast.SimpleName(ident) == name {
				out = append(out, Symbol{Name: name, Kind: SymbolProperty,
					Type: TypeOfSyntax(member.ChildByField("type")), Declaration: member})
			}
		case csast.NodeField:
			for _, sym := range declaratorSymbols(member.FirstChildOfKind(csast.NodeVariableDeclaration)) {
				if sym.Name == name {
					sym.Kind = SymbolField
					out = append(out, sym)
				}
			}
		case csast.NodeMethod:
			if ident := csast.DeclaredName(member); ident != nil && csast.SimpleName(ident) == name {
				out = append(out, Symbol{Name: name, Kind: SymbolMethod, Declaration: member})
			}
		case csast.NodeTypeDeclaration:
			if ident := csast.DeclaredName(member); ident != nil && csast.SimpleName(ident) == name {
				out = append(out, Symbol{Name: name, Kind: SymbolType, Declaration: member})
			}
		}
	}
	return out
}
