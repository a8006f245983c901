package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems"
)

// Registry manages the available algorithm adapters.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]problems.Definition
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]problems.Definition),
	}
}

// NewBuiltin creates a registry holding the built-in adapters.
func NewBuiltin() *Registry {
	r := NewRegistry()
	for _, def := range problems.Builtin() {
		r.Register(def)
	}
	return r
}

// Register adds an adapter to the registry.
// If an adapter with the same ID exists, it is overwritten.
func (r *Registry) Register(def problems.Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.ID] = def
}

// Lookup returns the adapter registered under id.
func (r *Registry) Lookup(id string) (problems.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// Open starts a driver session for the adapter registered under id.
func (r *Registry) Open(id string, opts ...driver.Option) (driver.Session, error) {
	def, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProblemNotFound, id)
	}
	return def.Open(opts...), nil
}

// IDs returns the registered adapter IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
