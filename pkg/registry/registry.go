// Package registry keeps named automaton constructors so front ends can
// select an automaton by name.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/delta"
)

// ErrNotFound is returned when no constructor is registered under a name.
var ErrNotFound = errors.New("automaton not found")

// BuildFunc constructs a fresh automaton. Options are applied on top of the
// constructor's own defaults.
type BuildFunc func(opts ...delta.Option) (*delta.Automaton, error)

// Registry manages the available automata.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]BuildFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuildFunc),
	}
}

// Register adds a constructor to the registry.
// If one with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn BuildFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = fn
}

// Build looks up a constructor by name and runs it. The automaton is named
// after its registry entry.
func (r *Registry) Build(name string, opts ...delta.Option) (*delta.Automaton, error) {
	r.mu.RLock()
	fn, ok := r.builders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrNotFound, name, r.Names())
	}

	opts = append(opts, delta.WithName(name))
	return fn(opts...)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
