package web

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
)

// Registry is the in-memory collection of diagrams the server has
// rendered. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	diagrams map[uuid.UUID]*diagram.Diagram
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{diagrams: make(map[uuid.UUID]*diagram.Diagram)}
}

// Put stores a diagram.
func (r *Registry) Put(d *diagram.Diagram) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagrams[d.ID] = d
}

// Get retrieves a diagram by ID, reporting whether it was found.
func (r *Registry) Get(id uuid.UUID) (*diagram.Diagram, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.diagrams[id]
	return d, ok
}

// Delete removes a diagram, reporting whether it existed.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.diagrams[id]
	delete(r.diagrams, id)
	return ok
}

// List returns all diagrams in the registry.
func (r *Registry) List() []*diagram.Diagram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*diagram.Diagram, 0, len(r.diagrams))
	for _, d := range r.diagrams {
		out = append(out, d)
	}
	return out
}

// Len returns the number of stored diagrams.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.diagrams)
}
