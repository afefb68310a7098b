package semantic

import (
	"github.com/yaklabco/eflint/pkg/csast"
)

// Query operators grouped by what they return.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	preservingOps = set("Where", "Skip", "Take", "Distinct", "Reverse", "SkipWhile",
		"TakeWhile", "Concat", "Union", "Intersect", "Except", "DefaultIfEmpty",
		"SkipLast", "TakeLast", "DistinctBy", "UnionBy", "IntersectBy", "ExceptBy", "Append", "Prepend")
	orderingOps   = set("OrderBy", "OrderByDescending", "ThenBy", "ThenByDescending", "Order", "OrderDescending")
	projectingOps = set("Select", "SelectMany", "GroupBy", "Join", "GroupJoin", "Zip", "Cast", "OfType", "Chunk")
	elementOps    = set("First", "FirstOrDefault", "Single", "SingleOrDefault", "Last",
		"LastOrDefault", "ElementAt", "ElementAtOrDefault", "Min", "Max", "MinBy", "MaxBy", "Aggregate")
	scalarOps = map[string]string{
		"Count": "int", "LongCount": "long", "Any": "bool", "All": "bool",
		"Contains": "bool", "SequenceEqual": "bool", "Sum": "?", "Average": "?",
	}
	materializingOps = set("AsEnumerable", "ToList", "ToArray", "ToDictionary", "ToLookup", "ToHashSet")
	entityOps        = set("Include", "AsNoTracking", "AsNoTrackingWithIdentityResolution",
		"AsStreaming", "Load", "LoadAsync", "ToListAsync", "ToArrayAsync", "FirstAsync",
		"FirstOrDefaultAsync", "SingleAsync", "SingleOrDefaultAsync", "CountAsync", "AnyAsync",
		"AllAsync", "ForEachAsync", "MaxAsync", "MinAsync", "SumAsync", "AverageAsync")
	entityInstanceOps = set("Include", "AsNoTracking", "AsStreaming")
)

func set(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// bindQueryMethod resolves LINQ and Entity Framework operators on query and
// collection receivers, the way overload resolution picks them for EF6:
//
//   - DbSet/DbQuery instance Include(string), AsNoTracking and AsStreaming bind
//     to DbQuery<TResult>;
//   - other EF operators, and Skip/Take given a lambda, bind to QueryableExtensions;
//   - LINQ operators on IQueryable<T> bind to Queryable;
//   - AsEnumerable/ToList and operators on in-memory sequences bind to Enumerable.
//
// It returns nil for receivers and names outside that surface.
func bindQueryMethod(name string, recv *Type, call *csast.Node) *Method {
	elem := recv.Arg(0)
	if elem == nil {
		elem = unknownType()
	}
	method := &Method{Name: name, ReceiverType: recv}

	switch {
	case recv.IsEntityQuery() && entityInstanceOps[name] && !firstArgIsLambda(call):
		method.ContainingType = ContainerDbQuery
		method.ReturnType = NewType("DbQuery", elem)
		return method

	case recv.IsQueryable():
		method.IsExtension = true
		switch {
		case entityOps[name]:
			method.ContainingType = ContainerQueryExtensions
			method.ReturnType = entityReturn(name, elem)
		case (name == "Skip" || name == "Take") && firstArgIsLambda(call):
			method.ContainingType = ContainerQueryExtensions
			method.ReturnType = NewType("IQueryable", elem)
		case materializingOps[name]:
			method.ContainingType = ContainerEnumerable
			method.ReturnType = materializedReturn(name, elem)
		default:
			ret, ok := operatorReturn(name, elem, call, "IQueryable", "IOrderedQueryable")
			if !ok {
				return nil
			}
			method.ContainingType = ContainerQueryable
			method.ReturnType = ret
		}
		return method
	}

	if _, ok := recv.builtinElement(); ok && !recv.IsString() {
		method.IsExtension = true
		var ret *Type
		var ok bool
		if materializingOps[name] {
			ret, ok = materializedReturn(name, elem), true
		} else {
			ret, ok = operatorReturn(name, elem, call, "IEnumerable", "IOrderedEnumerable")
		}
		if !ok {
			return nil
		}
		method.ContainingType = ContainerEnumerable
		method.ReturnType = ret
		return method
	}

	return nil
}

func operatorReturn(name string, elem *Type, call *csast.Node, sequence, ordered string) (*Type, bool) {
	switch {
	case preservingOps[name]:
		return NewType(sequence, elem), true
	case orderingOps[name]:
		return NewType(ordered, elem), true
	case projectingOps[name]:
		if (name == "Cast" || name == "OfType") && call != nil {
			if arg := genericArgument(call); arg != nil {
				return NewType(sequence, arg), true
			}
		}
		return NewType(sequence, unknownType()), true
	case elementOps[name]:
		return elem, true
	}
	if scalar, ok := scalarOps[name]; ok {
		if scalar == "?" {
			return unknownType(), true
		}
		return NewType(scalar), true
	}
	return nil, false
}

func entityReturn(name string, elem *Type) *Type {
	switch name {
	case "Include", "AsNoTracking", "AsNoTrackingWithIdentityResolution", "AsStreaming":
		return NewType("IQueryable", elem)
	case "ToListAsync":
		return NewType("Task", NewType("List", elem))
	case "ToArrayAsync":
		return NewType("Task", ArrayOf(elem))
	case "Load":
		return NewType("void")
	default:
		return NewType("Task", unknownType())
	}
}

func materializedReturn(name string, elem *Type) *Type {
	switch name {
	case "AsEnumerable":
		return NewType("IEnumerable", elem)
	case "ToList":
		return NewType("List", elem)
	case "ToArray":
		return ArrayOf(elem)
	case "ToHashSet":
		return NewType("HashSet", elem)
	default:
		return unknownType()
	}
}

func firstArgIsLambda(call *csast.Node) bool {
	if call == nil {
		return false
	}
	args := call.Arguments()
	if len(args) == 0 {
		return false
	}
	return csast.Unparenthesize(csast.ArgumentExpression(args[0])).Kind == csast.NodeLambda
}

// genericArgument returns the single explicit type argument of a call like Cast<T>().
func genericArgument(call *csast.Node) *Type {
	name := csast.MemberName(call.Callee())
	if name == nil || name.Kind != csast.NodeGenericName {
		return nil
	}
	list := name.FirstChildOfKind(csast.NodeTypeArgumentList)
	if list == nil || list.FirstChild == nil || list.FirstChild != list.LastChild {
		return nil
	}
	return TypeOfSyntax(list.FirstChild)
}
