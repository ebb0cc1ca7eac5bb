// Package demo holds ready-made automata used by the command line, the HTTP
// server and end-to-end tests.
package demo

import (
	"github.com/aretw0/delta"
	"github.com/aretw0/delta/pkg/domain"
)

// AB1Name is the registered name of the (a+b)(a+b+1)* automaton.
const AB1Name = "ab1"

// AB1 builds the DFA for (a+b)(a+b+1)* over {a, b, 1} with states q1..q6:
//
//	     a   b   1
//	q1   q2  q3  -
//	q2+  q4  q5  q6   (q3..q6 use the same row)
func AB1(opts ...delta.Option) (*delta.Automaton, error) {
	opts = append([]delta.Option{delta.WithBaseState(1), delta.WithName(AB1Name)}, opts...)
	a := delta.New(opts...)

	ids, err := a.UseStates(6)
	if err != nil {
		return nil, err
	}
	q1, q2, q3, q4, q5, q6 := ids[0], ids[1], ids[2], ids[3], ids[4], ids[5]

	if err := a.SetStartState(q1); err != nil {
		return nil, err
	}
	if err := a.SetAcceptStates(q2, q3, q4, q5, q6); err != nil {
		return nil, err
	}

	a.UseSigma('a', 'b', '1')

	first, err := a.DefineTransition(domain.To(q2), domain.To(q3), domain.None)
	if err != nil {
		return nil, err
	}
	rest, err := a.DefineTransition(domain.To(q4), domain.To(q5), domain.To(q6))
	if err != nil {
		return nil, err
	}

	if err := a.UseTransition(q1, first); err != nil {
		return nil, err
	}
	for _, q := range []domain.StateID{q2, q3, q4, q5, q6} {
		if err := a.UseTransition(q, rest); err != nil {
			return nil, err
		}
	}
	return a, nil
}
