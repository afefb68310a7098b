package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/eflint/pkg/semantic"
)

// ErrUnresolvedSegment is returned when a path segment is not a property of
// the type reached so far. The include fix treats it as a no-op.
var ErrUnresolvedSegment = errors.New("include path segment not resolved")

// PropertyResolver resolves property names on types.
type PropertyResolver interface {
	PropertyOf(t *semantic.Type, name string) (*semantic.Property, error)
}

// NameSource hands out fresh lambda parameter names.
type NameSource interface {
	Next() (string, error)
}

// PathStep is one resolved segment of an include path.
type PathStep struct {
	Name       string
	Enumerable bool
}

// IncludeLambda translates a dotted include path into the equivalent lambda
// text, navigating collection-valued steps through Select:
//
//	"Orders.OrderLines" -> a => a.Orders.Select(b => b.OrderLines)
//
// element is the query's element type.
func IncludeLambda(resolver PropertyResolver, names NameSource, element *semantic.Type, path string) (string, []PathStep, error) {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = strings.TrimSpace(seg)
		if segments[i] == "" {
			return "", nil, fmt.Errorf("%w: empty segment in %q", ErrUnresolvedSegment, path)
		}
	}

	root, err := names.Next()
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString(root)
	sb.WriteString(" => ")
	sb.WriteString(root)

	steps := make([]PathStep, 0, len(segments))
	cursor := element
	prevEnumerable := false
	opened := 0

	for _, seg := range segments {
		prop, err := resolver.PropertyOf(cursor, seg)
		if err != nil {
			if errors.Is(err, semantic.ErrUnresolved) {
				return "", nil, fmt.Errorf("%w: %s on %s", ErrUnresolvedSegment, seg, cursor)
			}
			return "", nil, err
		}
		if prop == nil {
			return "", nil, fmt.Errorf("%w: %s on %s", ErrUnresolvedSegment, seg, cursor)
		}

		if prevEnumerable {
			inner, err := names.Next()
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(".Select(")
			sb.WriteString(inner)
			sb.WriteString(" => ")
			sb.WriteString(inner)
			opened++
		}
		sb.WriteByte('.')
		sb.WriteString(seg)

		steps = append(steps, PathStep{Name: seg, Enumerable: prop.Enumerable})
		prevEnumerable = prop.Enumerable
		if prop.Enumerable {
			cursor = prop.Element
		} else {
			cursor = prop.Type
		}
	}

	sb.WriteString(strings.Repeat(")", opened))
	return sb.String(), steps, nil
}
