package rewrite

import (
	"fmt"

	"github.com/yaklabco/eflint/pkg/semantic"
)

// Blacklist holds names already taken within one rewrite.
type Blacklist map[string]struct{}

// NewBlacklist returns a blacklist seeded with names.
func NewBlacklist(names ...string) Blacklist {
	b := make(Blacklist, len(names))
	for _, name := range names {
		b.Add(name)
	}
	return b
}

// Add marks name as taken.
func (b Blacklist) Add(name string) {
	b[name] = struct{}{}
}

// Contains reports whether name is taken.
func (b Blacklist) Contains(name string) bool {
	_, ok := b[name]
	return ok
}

// SymbolLookup is the part of the semantic model the allocator queries.
type SymbolLookup interface {
	LookupSymbols(offset int, name string) ([]semantic.Symbol, error)
}

// VariableName returns the n-th name of the bijective base-26 sequence:
// 1 is "a", 26 is "z", 27 is "aa", 28 is "ab".
func VariableName(n int) string {
	if n <= 0 {
		return ""
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Allocate returns the first name in the sequence that is neither
// blacklisted, a C# keyword, nor bound to a local or parameter visible at
// offset. The chosen name is added to the blacklist.
func Allocate(lookup SymbolLookup, offset int, blacklist Blacklist) (string, error) {
	for n := 1; ; n++ {
		candidate := VariableName(n)
		if blacklist.Contains(candidate) || keywords[candidate] {
			continue
		}

		symbols, err := lookup.LookupSymbols(offset, candidate)
		if err != nil {
			return "", fmt.Errorf("allocate identifier: %w", err)
		}
		if shadowsLocal(symbols) {
			continue
		}

		blacklist.Add(candidate)
		return candidate, nil
	}
}

func shadowsLocal(symbols []semantic.Symbol) bool {
	for _, sym := range symbols {
		if sym.IsLocalOrParameter() {
			return true
		}
	}
	return false
}

// Allocator hands out successive fresh names for one insertion point.
type Allocator struct {
	lookup    SymbolLookup
	offset    int
	blacklist Blacklist
}

// NewAllocator creates an allocator for names visible at offset. A nil
// blacklist starts empty.
func NewAllocator(lookup SymbolLookup, offset int, blacklist Blacklist) *Allocator {
	if blacklist == nil {
		blacklist = NewBlacklist()
	}
	return &Allocator{lookup: lookup, offset: offset, blacklist: blacklist}
}

// Next allocates the next fresh name.
func (a *Allocator) Next() (string, error) {
	return Allocate(a.lookup, a.offset, a.blacklist)
}

// keywords are the reserved C# words of up to four letters. Longer ones
// would only come up after "zzzz", which no rewrite gets near. Contextual
// keywords such as var and from are valid lambda parameter names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]bool{
	"as": true, "do": true, "if": true, "in": true, "is": true,
	"for": true, "int": true, "new": true, "out": true, "ref": true, "try": true,
	"base": true, "bool": true, "byte": true, "case": true, "char": true, "else": true,
	"enum": true, "goto": true, "lock": true, "long": true, "null": true, "this": true,
	"true": true, "uint": true, "void": true,
}
