package lint

import (
	"slices"
	"strings"
	"sync"
)

// Registry indexes rules by ID and by name. Lookups ignore case, so
// "ef1000", "EF1000" and "include-string-path" all find the same rule.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule   // by ID
	keys  map[string]string // lowercased ID or name -> ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
		keys:  make(map[string]string),
	}
}

// Register adds rule, replacing any rule registered under the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.rules[rule.ID()]; ok {
		delete(r.keys, strings.ToLower(old.Name()))
	}
	r.rules[rule.ID()] = rule
	r.keys[strings.ToLower(rule.ID())] = rule.ID()
	if rule.Name() != "" {
		r.keys[strings.ToLower(rule.Name())] = rule.ID()
	}
}

// Lookup finds a rule by ID or name.
func (r *Registry) Lookup(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, false
	}
	return r.rules[id], true
}

// Rules returns every registered rule ordered by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()
	out := make([]Rule, len(ids))
	for i, id := range ids {
		out[i] = r.rules[id]
	}
	return out
}

// IDs returns the registered rule IDs in order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedIDs()
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DefaultRegistry holds the built-in rules, which register themselves from
// the rules package's init.
//
//nolint:gochecknoglobals // rule registration point
var DefaultRegistry = NewRegistry()
