package semantic

import (
	"strings"
	"sync"

	"github.com/yaklabco/eflint/pkg/csast"
)

// maxBaseDepth bounds base-type traversal so cyclic declarations terminate.
const maxBaseDepth = 16

// TypeDecl is a class, struct, interface or record known to the index.
type TypeDecl struct {
	Namespace  string
	Name       string
	Bases      []*Type
	Properties map[string]*Type
	Fields     map[string]*Type
	Methods    map[string]*Type

	// Source is the file path or "schema".
	Source string
}

// FullName returns the namespace-qualified name.
func (d *TypeDecl) FullName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// Type returns the declaration as a type reference.
func (d *TypeDecl) Type() *Type {
	return &Type{Namespace: d.Namespace, Name: d.Name}
}

func newTypeDecl(namespace, name, source string) *TypeDecl {
	return &TypeDecl{
		Namespace:  namespace,
		Name:       name,
		Properties: make(map[string]*Type),
		Fields:     make(map[string]*Type),
		Methods:    make(map[string]*Type),
		Source:     source,
	}
}

// Index holds the type declarations of a whole project.
// AddFile may be called from many goroutines; queries are expected to start
// once indexing has finished.
type Index struct {
	mu    sync.RWMutex
	types map[string][]*TypeDecl

	// entitySets maps a context property name (e.g. "Salesmen") to the
	// set types declared under that name across all context classes.
	entitySets map[string][]*Type
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		types:      make(map[string][]*TypeDecl),
		entitySets: make(map[string][]*Type),
	}
}

// AddFile records every type declaration in the snapshot.
func (idx *Index) AddFile(snapshot *csast.FileSnapshot) {
	if snapshot == nil || snapshot.Root == nil {
		return
	}

	decls := collectDecls(snapshot)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, decl := range decls {
		idx.addLocked(decl)
	}
}

func (idx *Index) addLocked(decl *TypeDecl) {
	for _, existing := range idx.types[decl.Name] {
		if existing.Namespace == decl.Namespace {
			// Partial declarations and schema overlays merge into one entry.
			existing.Bases = append(existing.Bases, decl.Bases...)
			for k, v := range decl.Properties {
				existing.Properties[k] = v
			}
			for k, v := range decl.Fields {
				existing.Fields[k] = v
			}
			for k, v := range decl.Methods {
				existing.Methods[k] = v
			}
			idx.recordSetsLocked(decl)
			return
		}
	}
	idx.types[decl.Name] = append(idx.types[decl.Name], decl)
	idx.recordSetsLocked(decl)
}

func (idx *Index) recordSetsLocked(decl *TypeDecl) {
	for name, t := range decl.Properties {
		if t.Is("DbSet") || t.Is("IDbSet") {
			idx.entitySets[name] = append(idx.entitySets[name], t)
		}
	}
}

// Lookup finds the declaration for a type reference.
func (idx *Index) Lookup(t *Type) *TypeDecl {
	if t == nil || t.Array {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.types[t.Name]
	if len(candidates) == 0 {
		return nil
	}
	if t.Namespace == "" {
		return candidates[0]
	}
	for _, decl := range candidates {
		if decl.Namespace == t.Namespace || strings.HasSuffix(decl.Namespace, "."+t.Namespace) {
			return decl
		}
	}
	return nil
}

// HasType reports whether any declaration uses the simple name.
func (idx *Index) HasType(name string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.types[name]) > 0
}

// EntitySet returns the set type of a context property when exactly one
// context declares a set under that name.
func (idx *Index) EntitySet(name string) (*Type, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	sets := idx.entitySets[name]
	if len(sets) == 0 {
		return nil, false
	}
	first := sets[0].String()
	for _, t := range sets[1:] {
		if t.String() != first {
			return nil, false
		}
	}
	return sets[0], true
}

// Len returns the number of distinct declarations.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n := 0
	for _, decls := range idx.types {
		n += len(decls)
	}
	return n
}

// memberType looks a property or field up on t and its bases.
func (idx *Index) memberType(t *Type, name string) (*Type, bool) {
	return idx.walkBases(t, func(decl *TypeDecl) (*Type, bool) {
		if pt, ok := decl.Properties[name]; ok {
			return pt, true
		}
		pt, ok := decl.Fields[name]
		return pt, ok
	})
}

// property looks a property up on t and its bases.
func (idx *Index) property(t *Type, name string) (*Type, bool) {
	return idx.walkBases(t, func(decl *TypeDecl) (*Type, bool) {
		pt, ok := decl.Properties[name]
		return pt, ok
	})
}

// method looks a method up on t and its bases, returning the declaring type.
func (idx *Index) method(t *Type, name string) (*TypeDecl, *Type, bool) {
	var owner *TypeDecl
	ret, ok := idx.walkBases(t, func(decl *TypeDecl) (*Type, bool) {
		rt, found := decl.Methods[name]
		if found {
			owner = decl
		}
		return rt, found
	})
	return owner, ret, ok
}

func (idx *Index) walkBases(t *Type, visit func(*TypeDecl) (*Type, bool)) (*Type, bool) {
	current := []*Type{t}
	for depth := 0; depth < maxBaseDepth && len(current) > 0; depth++ {
		var next []*Type
		for _, ct := range current {
			decl := idx.Lookup(ct)
			if decl == nil {
				continue
			}
			if found, ok := visit(decl); ok {
				return found, true
			}
			next = append(next, decl.Bases...)
		}
		current = next
	}
	return nil, false
}

// enumerableElement reports whether t implements IEnumerable<T> and returns T.
func (idx *Index) enumerableElement(t *Type) (*Type, bool) {
	current := []*Type{t}
	for depth := 0; depth < maxBaseDepth && len(current) > 0; depth++ {
		var next []*Type
		for _, ct := range current {
			if elem, ok := ct.builtinElement(); ok {
				return elem, true
			}
			if decl := idx.Lookup(ct); decl != nil {
				next = append(next, decl.Bases...)
			}
		}
		current = next
	}
	return nil, false
}

// collectDecls extracts type declarations from a parsed file.
func collectDecls(snapshot *csast.FileSnapshot) []*TypeDecl {
	fileNamespace := ""
	for child := snapshot.Root.FirstChild; child != nil; child = child.Next {
		if child.Type == "file_scoped_namespace_declaration" {
			fileNamespace = declName(child)
		}
	}

	var decls []*TypeDecl
	//nolint:errcheck,revive // callback never fails
	csast.Walk(snapshot.Root, func(n *csast.Node) error {
		if n.Kind != csast.NodeTypeDeclaration {
			return nil
		}
		name := csast.DeclaredName(n)
		if name == nil {
			return nil
		}
		decl := newTypeDecl(namespaceOf(n, fileNamespace), name.TextString(), snapshot.Path)
		fillDecl(decl, n)
		decls = append(decls, decl)
		return nil
	})
	return decls
}

func namespaceOf(n *csast.Node, fileNamespace string) string {
	var parts []string
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == csast.NodeNamespace {
			parts = append([]string{declName(p)}, parts...)
		}
	}
	if len(parts) == 0 {
		return fileNamespace
	}
	return strings.Join(parts, ".")
}

func declName(n *csast.Node) string {
	if name := n.ChildByField("name"); name != nil {
		return strings.Join(strings.Fields(name.TextString()), "")
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == csast.NodeIdentifier || child.Kind == csast.NodeQualifiedName {
			return strings.Join(strings.Fields(child.TextString()), "")
		}
	}
	return ""
}

func fillDecl(decl *TypeDecl, n *csast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Type {
		case "base_list":
			for base := child.FirstChild; base != nil; base = base.Next {
				if t := ParseType(base.TextString()); t != nil {
					decl.Bases = append(decl.Bases, t)
				}
			}
		case "declaration_list":
			fillMembers(decl, child)
		}
	}
}

func fillMembers(decl *TypeDecl, body *csast.Node) {
	for member := body.FirstChild; member != nil; member = member.Next {
		switch member.Kind {
		case csast.NodeProperty:
			name := csast.DeclaredName(member)
			if t := TypeOfSyntax(member.ChildByField("type")); name != nil && t != nil {
				decl.Properties[name.TextString()] = t
			}
		case csast.NodeField:
			vars := member.FirstChildOfKind(csast.NodeVariableDeclaration)
			if vars == nil {
				continue
			}
			t := TypeOfSyntax(vars.ChildByField("type"))
			for _, d := range vars.ChildrenByKind(csast.NodeVariableDeclarator) {
				if name := csast.DeclaredName(d); name != nil && t != nil {
					decl.Fields[name.TextString()] = t
				}
			}
		case csast.NodeMethod:
			if member.Type != "method_declaration" {
				continue
			}
			name := csast.DeclaredName(member)
			ret := member.ChildByField("returns")
			if ret == nil {
				ret = member.ChildByField("type")
			}
			if name != nil {
				decl.Methods[name.TextString()] = TypeOfSyntax(ret)
			}
		}
	}
}
