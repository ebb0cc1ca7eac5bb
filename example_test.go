package delta_test

import (
	"fmt"
	"log"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/pkg/domain"
)

// ExampleNew builds the transition table for (a+b)(a+b+1)* and checks an input.
// States q2..q6 share a single transition row.
func ExampleNew() {
	dfa := delta.New(delta.WithBaseState(1))

	q, err := dfa.UseStates(6)
	if err != nil {
		log.Fatal(err)
	}
	q1, q2, q3, q4, q5, q6 := q[0], q[1], q[2], q[3], q[4], q[5]
	_ = dfa.SetStartState(q1)
	_ = dfa.SetAcceptStates(q2, q3, q4, q5, q6)

	dfa.UseSigma('a', 'b', '1')

	first, _ := dfa.DefineTransition(domain.To(q2), domain.To(q3), domain.None)
	rest, _ := dfa.DefineTransition(domain.To(q4), domain.To(q5), domain.To(q6))

	_ = dfa.UseTransition(q1, first)
	for _, s := range []domain.StateID{q2, q3, q4, q5, q6} {
		_ = dfa.UseTransition(s, rest)
	}

	res := dfa.Check("ab111ba")
	for _, step := range res.Trace {
		fmt.Printf("Read %q at %s, goto %s\n", step.Symbol.String(), step.From, step.To)
	}
	fmt.Println(res.Verdict)
	// Output:
	// Read "a" at q1, goto q2
	// Read "b" at q2, goto q5
	// Read "1" at q5, goto q6
	// Read "1" at q6, goto q6
	// Read "1" at q6, goto q6
	// Read "b" at q6, goto q5
	// Read "a" at q5, goto q4
	// accept
}

// ExampleAutomaton_Check_reject shows the trace of a rejected input.
func ExampleAutomaton_Check_reject() {
	dfa := delta.New()
	q, _ := dfa.UseStates(2)
	dfa.UseSigma('0', '1')
	row, _ := dfa.DefineTransition(domain.To(q[1]), domain.None)
	_ = dfa.UseTransition(q[0], row)
	_ = dfa.SetAcceptStates(q[1])

	res := dfa.Check("01")
	for _, step := range res.Trace {
		fmt.Println(step.Position, step.Symbol.String(), step.From, step.Outcome)
	}
	fmt.Println(res.Verdict, res.Final)
	// Output:
	// 0 0 q0 moved
	// 1 1 q1 no_row
	// reject q1
}
