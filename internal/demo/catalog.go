package demo

import (
	"github.com/aretw0/delta"
	"github.com/aretw0/delta/pkg/dsl"
	"github.com/aretw0/delta/pkg/registry"
)

// EvenOnesName is the registered name of the even-parity automaton.
const EvenOnesName = "even-ones"

// EvenOnes accepts binary strings holding an even number of 1s. It is
// declared with the dsl builder rather than the raw table API.
func EvenOnes(opts ...delta.Option) (*delta.Automaton, error) {
	b := dsl.New()
	b.Add("even").Start().Accept().On('0', "even").On('1', "odd")
	b.Add("odd").On('0', "odd").On('1', "even")

	m, err := b.Build(append([]delta.Option{delta.WithName(EvenOnesName)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return m.Automaton, nil
}

// Register adds every demo automaton to r.
func Register(r *registry.Registry) {
	r.Register(AB1Name, AB1)
	r.Register(EvenOnesName, EvenOnes)
}

// Catalog returns a registry holding the demo automata.
func Catalog() *registry.Registry {
	r := registry.NewRegistry()
	Register(r)
	return r
}
