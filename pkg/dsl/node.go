package dsl

import (
	"fmt"

	"github.com/aretw0/delta/pkg/domain"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name    string
	builder *Builder
	edges   map[domain.Symbol]string
	symbols []domain.Symbol // first-use order of edges
	accept  bool
}

// Start marks this state as the start state. The last call wins; without
// any call the first declared state starts.
func (s *StateBuilder) Start() *StateBuilder {
	s.builder.start = s.name
	return s
}

// Accept marks this state as accepting.
func (s *StateBuilder) Accept() *StateBuilder {
	s.accept = true
	return s
}

// On adds a transition reading sym to the named state. Destinations may be
// declared later.
func (s *StateBuilder) On(sym domain.Symbol, to string) *StateBuilder {
	if prev, ok := s.edges[sym]; ok {
		if prev != to {
			s.builder.errs = append(s.builder.errs,
				fmt.Errorf("%w: state %q reads %q to both %q and %q", ErrConflictingTransition, s.name, sym, prev, to))
		}
		return s
	}
	s.edges[sym] = to
	s.symbols = append(s.symbols, sym)
	return s
}

// OnAny adds the same destination for each symbol in syms.
func (s *StateBuilder) OnAny(syms string, to string) *StateBuilder {
	for _, r := range syms {
		s.On(domain.Symbol(r), to)
	}
	return s
}

// Add declares another state, to keep chains flowing.
func (s *StateBuilder) Add(name string) *StateBuilder {
	return s.builder.Add(name)
}
