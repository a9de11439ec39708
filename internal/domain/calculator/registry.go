package calculator

import (
	"fmt"
	"sort"
)

// Registry maps calculator ids to calculators. It is filled once during
// start-up and sealed; lookups after sealing need no locking.
type Registry struct {
	byID   map[string]Calculator
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Calculator)}
}

// Register adds c under its metadata id. It panics on an empty or duplicate
// id, on a calculator without stages, or when the registry is sealed: all of
// these are wiring mistakes caught at start-up.
func (r *Registry) Register(c Calculator) {
	if r.sealed {
		panic("calculator: register on sealed registry")
	}
	meta := c.Metadata()
	if meta.ID == "" {
		panic("calculator: empty id")
	}
	if len(meta.Stages) == 0 {
		panic(fmt.Sprintf("calculator: %s declares no stages", meta.ID))
	}
	if _, dup := r.byID[meta.ID]; dup {
		panic(fmt.Sprintf("calculator: duplicate id %s", meta.ID))
	}
	r.byID[meta.ID] = c
}

// Seal makes the registry read-only and returns it.
func (r *Registry) Seal() *Registry {
	r.sealed = true
	return r
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool { return r.sealed }

// Lookup returns the calculator registered under id.
func (r *Registry) Lookup(id string) (Calculator, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Len returns the number of registered calculators.
func (r *Registry) Len() int { return len(r.byID) }

// List returns every calculator's metadata ordered by id.
func (r *Registry) List() []Metadata {
	out := make([]Metadata, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c.Metadata())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
