package semantic

import (
	"strings"
	"unicode"

	"github.com/yaklabco/eflint/pkg/csast"
)

// ParseType parses C# type syntax such as "ICollection<Order>", "Shop.Order[]",
// "int?" or "Dictionary<string, List<int>>". It returns nil for empty input.
func ParseType(text string) *Type {
	p := &typeParser{src: strings.ReplaceAll(strings.TrimSpace(text), "global::", "")}
	if p.src == "" || p.src == "var" {
		return nil
	}
	t := p.parse()
	if t == nil || p.pos < len(p.src) {
		return nil
	}
	return t
}

// TypeOfSyntax converts a type node into a Type. Implicit "var" yields nil.
func TypeOfSyntax(n *csast.Node) *Type {
	if n == nil || n.Kind == csast.NodeImplicitType {
		return nil
	}
	return ParseType(n.TextString())
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '@' {
		p.pos++
		start = p.pos
	}
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) && c < 0x80 {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parse() *Type {
	var t *Type
	if p.peek() == '(' {
		t = p.tuple()
	} else {
		t = p.named()
	}
	if t == nil {
		return nil
	}
	return p.suffixes(t)
}

func (p *typeParser) tuple() *Type {
	p.pos++ // (
	var elems []*Type
	for {
		elem := p.parse()
		if elem == nil {
			return nil
		}
		// Optional element name: (int Count, string Name).
		if c := p.peek(); c != ',' && c != ')' {
			if p.ident() == "" {
				return nil
			}
		}
		elems = append(elems, elem)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return NewType("ValueTuple", elems...)
		default:
			return nil
		}
	}
}

func (p *typeParser) named() *Type {
	var parts []string
	var args []*Type
	for {
		name := p.ident()
		if name == "" {
			return nil
		}
		parts = append(parts, name)
		args = nil
		if p.peek() == '<' {
			p.pos++
			for {
				arg := p.parse()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				c := p.peek()
				p.pos++
				if c == '>' {
					break
				}
				if c != ',' {
					return nil
				}
			}
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
	}

	name := parts[len(parts)-1]
	if len(parts) == 1 {
		return NewType(name, args...)
	}
	return &Type{Namespace: strings.Join(parts[:len(parts)-1], "."), Name: name, Args: args}
}

func (p *typeParser) suffixes(t *Type) *Type {
	for {
		switch p.peek() {
		case '?':
			p.pos++
			if !t.Array && isValueType(t) {
				t = NewType("Nullable", t)
			}
		case '[':
			p.pos++
			for p.peek() == ',' {
				p.pos++
			}
			if p.peek() != ']' {
				return nil
			}
			p.pos++
			t = ArrayOf(t)
		case '*':
			p.pos++
		default:
			return t
		}
	}
}

func isValueType(t *Type) bool {
	if t.Namespace != NamespaceSystem {
		return false
	}
	switch t.Name {
	case "String", "Object":
		return false
	default:
		_, isPredefined := systemNames[t.Name]
		return isPredefined
	}
}

//nolint:gochecknoglobals // Derived lookup table.
var systemNames = func() map[string]struct{} {
	out := make(map[string]struct{}, len(predefined))
	for _, name := range predefined {
		out[name] = struct{}{}
	}
	return out
}()
