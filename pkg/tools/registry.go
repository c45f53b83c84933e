package tools

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is the immutable, name-sorted union of every capability
// group's definitions. The ordering affects only listing determinism;
// dispatch goes through the name-keyed map.
type Registry struct {
	defs   []Definition
	byName map[string]Definition
}

// NewRegistry merges the given capability groups. Duplicate or empty
// tool names and missing handlers are rejected.
func NewRegistry(groups ...[]Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]Definition)}

	for _, group := range groups {
		for _, def := range group {
			if def.Tool.Name == "" {
				return nil, errors.New("tool definition with empty name")
			}
			if def.Handler == nil {
				return nil, fmt.Errorf("tool %q has no handler", def.Tool.Name)
			}
			if _, exists := r.byName[def.Tool.Name]; exists {
				return nil, fmt.Errorf("duplicate tool name %q", def.Tool.Name)
			}
			r.byName[def.Tool.Name] = def
			r.defs = append(r.defs, def)
		}
	}

	sort.Slice(r.defs, func(i, j int) bool {
		return r.defs[i].Tool.Name < r.defs[j].Tool.Name
	})
	return r, nil
}

// List returns the definitions in lexicographic name order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.defs) }
