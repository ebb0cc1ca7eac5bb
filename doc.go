/*
Package delta builds deterministic finite automata from an explicit transition table and evaluates inputs against them, recording a step-by-step trace of every run.

# Concept

An automaton is assembled in four moves: allocate states, declare the input alphabet, define transition rows (one cell per alphabet symbol, each a destination state or None) and assign a row to each state. Rows are interned, so many states can share one row by id. Evaluation walks the input one symbol at a time and stops at the first step that cannot proceed.

# Key Features

  - Deterministic Evaluation: the same automaton and input always give the same verdict and trace.
  - Total Check: Check never fails. A missing row, an unknown symbol and a None cell all reject, and the trace says which one it was.
  - Shared Rows: identical rows are stored once and referenced by RowID.
  - Observability: LifecycleHooks receive every step and verdict (see pkg/observability for slog and Prometheus bindings).

Construction errors are sentinels in pkg/domain (ErrInvalidCount, ErrInvalidState, ErrInvalidRow, ErrRowArity) wrapped with context; test them with errors.Is.

# Usage

	a := delta.New(delta.WithBaseState(1))

	ids, _ := a.UseStates(2)
	q1, q2 := ids[0], ids[1]
	_ = a.SetStartState(q1)
	_ = a.SetAcceptStates(q2)

	a.UseSigma('a', 'b')
	row, _ := a.DefineTransition(domain.To(q2), domain.None)
	_ = a.UseTransition(q1, row)

	res := a.Check("a")
	fmt.Println(res.Verdict) // accept

For named states and automatic row sharing use pkg/dsl.

An Automaton is not safe for concurrent mutation. Once construction is done, Check may be called from any number of goroutines.
*/
package delta
