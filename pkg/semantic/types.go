package semantic

import (
	"strings"
)

// Type is a resolved type reference: a (possibly qualified) name with type arguments.
// Arrays are represented with Array set and the element type in Args[0].
type Type struct {
	Namespace string
	Name      string
	Args      []*Type
	Array     bool
}

// Well-known namespaces.
const (
	NamespaceSystem      = "System"
	NamespaceLinq        = "System.Linq"
	NamespaceCollections = "System.Collections.Generic"
	NamespaceEntity      = "System.Data.Entity"
	NamespaceEntityInfra = "System.Data.Entity.Infrastructure"
)

// Display names of the method containers the analyzers care about.
const (
	ContainerQueryable         = "System.Linq.Queryable"
	ContainerEnumerable        = "System.Linq.Enumerable"
	ContainerQueryExtensions   = "System.Data.Entity.QueryableExtensions"
	ContainerDbQuery           = "System.Data.Entity.Infrastructure.DbQuery<TResult>"
	ContainerDbSet             = "System.Data.Entity.DbSet<TEntity>"
	ContainerEntityQueryPrefix = "System.Data.Entity.Infrastructure.DbQuery"
)

//nolint:gochecknoglobals // Read-only lookup table.
var knownNamespaces = map[string]string{
	"DbSet":                 NamespaceEntity,
	"IDbSet":                NamespaceEntity,
	"DbContext":             NamespaceEntity,
	"DbQuery":               NamespaceEntityInfra,
	"IQueryable":            NamespaceLinq,
	"IOrderedQueryable":     NamespaceLinq,
	"IGrouping":             NamespaceLinq,
	"ILookup":               NamespaceLinq,
	"IEnumerable":           NamespaceCollections,
	"ICollection":           NamespaceCollections,
	"IList":                 NamespaceCollections,
	"List":                  NamespaceCollections,
	"HashSet":               NamespaceCollections,
	"ISet":                  NamespaceCollections,
	"IReadOnlyCollection":   NamespaceCollections,
	"IReadOnlyList":         NamespaceCollections,
	"Dictionary":            NamespaceCollections,
	"IDictionary":           NamespaceCollections,
	"Queue":                 NamespaceCollections,
	"Stack":                 NamespaceCollections,
	"LinkedList":            NamespaceCollections,
	"SortedSet":             NamespaceCollections,
	"Collection":            "System.Collections.ObjectModel",
	"ObservableCollection":  "System.Collections.ObjectModel",
	"ReadOnlyCollection":    "System.Collections.ObjectModel",
	"Task":                  "System.Threading.Tasks",
	"Func":                  NamespaceSystem,
	"Nullable":              NamespaceSystem,
	"ValueTuple":            NamespaceSystem,
	"Lazy":                  NamespaceSystem,
	"Expression":            "System.Linq.Expressions",
}

// predefined maps C# keyword types onto their System types.
//
//nolint:gochecknoglobals // Read-only lookup table.
var predefined = map[string]string{
	"string": "String", "object": "Object", "bool": "Boolean", "char": "Char",
	"byte": "Byte", "sbyte": "SByte", "short": "Int16", "ushort": "UInt16",
	"int": "Int32", "uint": "UInt32", "long": "Int64", "ulong": "UInt64",
	"float": "Single", "double": "Double", "decimal": "Decimal",
	"nint": "IntPtr", "nuint": "UIntPtr", "void": "Void", "dynamic": "Object",
}

// enumerableNames are generic types that implement IEnumerable<T> over their first argument.
//
//nolint:gochecknoglobals // Read-only lookup table.
var enumerableNames = map[string]bool{
	"IEnumerable": true, "ICollection": true, "IList": true, "List": true,
	"HashSet": true, "ISet": true, "IReadOnlyCollection": true, "IReadOnlyList": true,
	"Collection": true, "ObservableCollection": true, "ReadOnlyCollection": true,
	"Queue": true, "Stack": true, "LinkedList": true, "SortedSet": true,
	"IQueryable": true, "IOrderedQueryable": true, "IOrderedEnumerable": true,
	"DbSet": true, "IDbSet": true, "DbQuery": true, "IGrouping": true,
}

// NewType builds a type, filling in the namespace of well-known names.
func NewType(name string, args ...*Type) *Type {
	t := &Type{Name: name, Args: args}
	if system, ok := predefined[name]; ok {
		t.Namespace, t.Name = NamespaceSystem, system
	} else if ns, ok := knownNamespaces[name]; ok {
		t.Namespace = ns
	}
	return t
}

// ArrayOf returns the array type T[].
func ArrayOf(elem *Type) *Type {
	return &Type{Array: true, Args: []*Type{elem}}
}

// String returns the display form, e.g. "System.Collections.Generic.List<Shop.Order>".
func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	if t.Array {
		return t.Arg(0).String() + "[]"
	}

	var sb strings.Builder
	if t.Namespace != "" {
		sb.WriteString(t.Namespace)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

// Arg returns the i-th type argument, or nil.
func (t *Type) Arg(i int) *Type {
	if t == nil || i < 0 || i >= len(t.Args) {
		return nil
	}
	return t.Args[i]
}

// Is reports whether t has the given simple name (and namespace, when known on both sides).
func (t *Type) Is(name string) bool {
	if t == nil || t.Array {
		return false
	}
	if t.Name != name {
		return false
	}
	ns, known := knownNamespaces[name]
	return !known || t.Namespace == "" || t.Namespace == ns
}

// IsString reports whether t is System.String.
func (t *Type) IsString() bool {
	return t != nil && !t.Array && t.Name == "String" && (t.Namespace == "" || t.Namespace == NamespaceSystem)
}

// IsEntityQuery reports whether t is one of Entity Framework's query classes,
// which carry the instance Include(string) overload.
func (t *Type) IsEntityQuery() bool {
	return t.Is("DbSet") || t.Is("DbQuery")
}

// IsQueryable reports whether t is an IQueryable<T> (or a type known to implement it).
func (t *Type) IsQueryable() bool {
	return t.Is("IQueryable") || t.Is("IOrderedQueryable") || t.Is("DbSet") ||
		t.Is("IDbSet") || t.Is("DbQuery")
}

// builtinElement returns the element type for arrays, strings and the
// well-known generic collections.
func (t *Type) builtinElement() (*Type, bool) {
	switch {
	case t == nil:
		return nil, false
	case t.Array:
		return t.Arg(0), true
	case t.IsString():
		return NewType("char"), true
	case enumerableNames[t.Name] && len(t.Args) > 0:
		return t.Args[0], true
	case t.Name == "Dictionary" || t.Name == "IDictionary":
		return NewType("KeyValuePair", t.Args...), true
	default:
		return nil, false
	}
}

// unknownType stands for an element type the model cannot infer.
func unknownType() *Type {
	return &Type{Name: "?"}
}
