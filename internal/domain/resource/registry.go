package resource

import (
	"sort"
	"sync"

	"crudcenter/internal/core/apperror"
)

// Registry holds resources by name. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Resource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Resource)}
}

// Register validates and adds a resource. Declaration problems are SCHEMA_ERRORs.
func (r *Registry) Register(res Resource) error {
	if err := res.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byName[res.Name]; dup {
		return apperror.NewSchema("duplicate resource").WithDetail("resource", res.Name)
	}
	r.byName[res.Name] = &res
	return nil
}

// Get returns a resource or a NOT_FOUND error.
func (r *Registry) Get(name string) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byName[name]
	if !ok {
		return nil, apperror.NewNotFound("resource", name)
	}
	return res, nil
}

// Names returns registered resource names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connections returns the distinct connection names used by resources.
func (r *Registry) Connections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, res := range r.byName {
		seen[res.Connection] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
