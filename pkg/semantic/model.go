// Package semantic answers the symbol questions the analyzers ask about a
// C# syntax tree: which method a call resolves to, which property a name
// denotes on a type, and which identifiers are visible at a position.
//
// The answers come from a project-wide Index of type declarations (built from
// every parsed file plus an optional entity schema) and per-file scope walking.
package semantic

import (
	"errors"
	"fmt"

	"github.com/yaklabco/eflint/pkg/csast"
)

// ErrUnresolved means the model has no symbol for the node. Callers treat it
// as "no match", not as a failure.
var ErrUnresolved = errors.New("symbol not resolved")

// ErrOutOfRange is returned for positions outside the file.
var ErrOutOfRange = errors.New("position out of range")

// QueryError reports a failed symbol query for a specific node.
type QueryError struct {
	Op     string
	Offset int
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// SymbolKind classifies a visible symbol.
type SymbolKind int

// Symbol kinds.
const (
	SymbolLocal SymbolKind = iota
	SymbolParameter
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolType
	SymbolNamespace
)

var symbolKindNames = [...]string{"local", "parameter", "field", "property", "method", "type", "namespace"}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// Symbol is a named entity visible at some position.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Type is the declared type, nil when implicit or unknown.
	Type *Type

	// Declaration is the declaring syntax node, if it lives in this file.
	Declaration *csast.Node
}

// IsLocalOrParameter reports whether shadowing this symbol would change meaning.
func (s Symbol) IsLocalOrParameter() bool {
	return s.Kind == SymbolLocal || s.Kind == SymbolParameter
}

// Method is the resolved target of a call.
type Method struct {
	Name string

	// ContainingType is the display name of the declaring type,
	// e.g. "System.Linq.Queryable".
	ContainingType string

	// ReceiverType is the type of the expression left of the dot.
	ReceiverType *Type

	// ReturnType is nil when unknown.
	ReturnType *Type

	// IsExtension is true for extension methods.
	IsExtension bool
}

// Property is a resolved property on a type.
type Property struct {
	Name           string
	ContainingType *Type
	Type           *Type

	// Enumerable is true when Type implements IEnumerable<T>.
	Enumerable bool

	// Element is the collection's element type when Enumerable.
	Element *Type
}

// Model is the symbol facade over one file.
type Model interface {
	// ResolveMethod returns the method an invocation node calls.
	ResolveMethod(call *csast.Node) (*Method, error)

	// PropertyOf resolves a property by name on a type.
	PropertyOf(t *Type, name string) (*Property, error)

	// LookupSymbols returns every symbol named name visible at offset.
	LookupSymbols(offset int, name string) ([]Symbol, error)
}
