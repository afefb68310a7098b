package semantic

import (
	"errors"
	"fmt"

	"github.com/yaklabco/eflint/pkg/csast"
)

// maxInferDepth bounds expression type inference through chains of locals.
const maxInferDepth = 32

// FileModel implements Model for one parsed file against a project Index.
// It holds no mutable state and is safe for concurrent use.
type FileModel struct {
	index    *Index
	snapshot *csast.FileSnapshot
}

var _ Model = (*FileModel)(nil)

// Bind returns the model for a snapshot.
func (idx *Index) Bind(snapshot *csast.FileSnapshot) (*FileModel, error) {
	if snapshot == nil || snapshot.Root == nil {
		return nil, errors.New("bind: snapshot has no syntax tree")
	}
	return &FileModel{index: idx, snapshot: snapshot}, nil
}

// Snapshot returns the file the model was bound to.
func (m *FileModel) Snapshot() *csast.FileSnapshot {
	return m.snapshot
}

// ResolveMethod returns the method an invocation calls. Calls without a
// member-access receiver, and receivers of unknown type, are unresolved.
func (m *FileModel) ResolveMethod(call *csast.Node) (*Method, error) {
	return m.resolveMethod(call, 0)
}

func (m *FileModel) resolveMethod(call *csast.Node, depth int) (*Method, error) {
	if call == nil || call.Kind != csast.NodeInvocation {
		return nil, fmt.Errorf("resolve method: not an invocation: %w", ErrUnresolved)
	}
	if call.File != m.snapshot {
		return nil, &QueryError{Op: "resolve method", Offset: call.StartOffset,
			Err: errors.New("node belongs to a different snapshot")}
	}

	callee := call.Callee()
	if callee == nil || callee.Kind != csast.NodeMemberAccess {
		return nil, ErrUnresolved
	}

	recvType, err := m.typeOf(csast.Receiver(callee), depth+1)
	if err != nil {
		return nil, err
	}

	name := csast.SimpleName(csast.MemberName(callee))
	method := bindQueryMethod(name, recvType, call)
	if method != nil {
		return method, nil
	}

	if owner, ret, ok := m.index.method(recvType, name); ok {
		return &Method{Name: name, ContainingType: owner.FullName(), ReceiverType: recvType, ReturnType: ret}, nil
	}
	return nil, ErrUnresolved
}

// PropertyOf resolves a property on t (or one of its bases).
func (m *FileModel) PropertyOf(t *Type, name string) (*Property, error) {
	if t == nil {
		return nil, ErrUnresolved
	}
	pt, ok := m.index.property(t, name)
	if !ok {
		return nil, ErrUnresolved
	}
	prop := &Property{Name: name, ContainingType: t, Type: pt}
	prop.Element, prop.Enumerable = m.index.enumerableElement(pt)
	return prop, nil
}

// TypeOf infers the static type of an expression.
func (m *FileModel) TypeOf(expr *csast.Node) (*Type, error) {
	return m.typeOf(expr, 0)
}

func (m *FileModel) typeOf(expr *csast.Node, depth int) (*Type, error) {
	if expr == nil || depth > maxInferDepth {
		return nil, ErrUnresolved
	}

	switch expr.Kind {
	case csast.NodeParenthesized:
		return m.typeOf(expr.FirstChild, depth+1)

	case csast.NodeIdentifier:
		return m.identifierType(expr, depth)

	case csast.NodeMemberAccess:
		return m.memberAccessType(expr, depth)

	case csast.NodeInvocation:
		method, err := m.resolveMethod(expr, depth+1)
		if err != nil {
			return nil, err
		}
		if method.ReturnType == nil {
			return nil, ErrUnresolved
		}
		return method.ReturnType, nil

	case csast.NodeObjectCreation:
		if t := TypeOfSyntax(expr.ChildByField("type")); t != nil {
			return t, nil
		}
		return nil, ErrUnresolved

	case csast.NodeStringLiteral:
		return NewType("string"), nil

	default:
		if expr.Type == "this_expression" {
			if decl := enclosingTypeDecl(expr); decl != nil {
				return m.declType(decl), nil
			}
		}
		return nil, ErrUnresolved
	}
}

func (m *FileModel) identifierType(ident *csast.Node, depth int) (*Type, error) {
	symbols, err := m.LookupSymbols(ident.StartOffset, csast.SimpleName(ident))
	if err != nil {
		return nil, err
	}

	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolType, SymbolNamespace, SymbolMethod:
			continue
		}
		if sym.Type != nil {
			return sym.Type, nil
		}
		if t, err := m.implicitType(sym, depth); err == nil {
			return t, nil
		}
	}

	// Members inherited from an indexed base class.
	if decl := enclosingTypeDecl(ident); decl != nil {
		if t, ok := m.index.memberType(m.declType(decl), csast.SimpleName(ident)); ok {
			return t, nil
		}
	}
	return nil, ErrUnresolved
}

// implicitType infers the type of a "var" local or foreach variable.
func (m *FileModel) implicitType(sym Symbol, depth int) (*Type, error) {
	decl := sym.Declaration
	if decl == nil {
		return nil, ErrUnresolved
	}
	switch decl.Kind {
	case csast.NodeVariableDeclarator:
		return m.typeOf(initializerOf(decl), depth+1)
	case csast.NodeForEach:
		source, err := m.typeOf(decl.ChildByField("right"), depth+1)
		if err != nil {
			return nil, err
		}
		if elem, ok := m.index.enumerableElement(source); ok {
			return elem, nil
		}
	}
	return nil, ErrUnresolved
}

func (m *FileModel) memberAccessType(access *csast.Node, depth int) (*Type, error) {
	name := csast.SimpleName(csast.MemberName(access))

	recvType, err := m.typeOf(csast.Receiver(access), depth+1)
	if err == nil {
		if t, ok := m.index.memberType(recvType, name); ok {
			return t, nil
		}
	}

	// An unknown context object: fall back to the entity set declared under
	// this name, provided it is unambiguous across the project.
	if set, ok := m.index.EntitySet(name); ok {
		return set, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrUnresolved
}

func (m *FileModel) declType(decl *csast.Node) *Type {
	name := csast.DeclaredName(decl)
	if name == nil {
		return unknownType()
	}
	ns := ""
	for p := decl.Parent; p != nil; p = p.Parent {
		if p.Kind == csast.NodeNamespace {
			if ns == "" {
				ns = declName(p)
			} else {
				ns = declName(p) + "." + ns
			}
		}
	}
	return &Type{Namespace: ns, Name: name.TextString()}
}

func enclosingTypeDecl(n *csast.Node) *csast.Node {
	return csast.FindAncestor(n, func(p *csast.Node) bool {
		return p.Kind == csast.NodeTypeDeclaration
	})
}

// initializerOf returns the value expression of a variable declarator.
func initializerOf(declarator *csast.Node) *csast.Node {
	name := csast.DeclaredName(declarator)
	for child := declarator.LastChild; child != nil; child = child.Prev {
		if child == name || child.Type == "bracketed_argument_list" {
			continue
		}
		if child.Type == "equals_value_clause" {
			return child.FirstChild
		}
		return child
	}
	return nil
}
