package runtime

import (
	"context"
	"time"

	"github.com/aretw0/delta/pkg/domain"
)

// Machine is the read-only view the evaluator walks.
type Machine interface {
	Start() domain.StateID
	IsAccept(domain.StateID) bool
	Column(domain.Symbol) (int, bool)
	RowOf(domain.StateID) (domain.Row, bool)
}

// Evaluator runs inputs against a Machine. It never mutates the machine.
type Evaluator struct {
	Machine Machine
	Hooks   domain.LifecycleHooks
	// Name labels emitted events.
	Name string
}

// Evaluate scans input left to right and stops at the first rejecting step.
// With the input exhausted the verdict is Accept iff the final state accepts.
func (e *Evaluator) Evaluate(ctx context.Context, input []domain.Symbol) domain.Result {
	current := e.Machine.Start()
	res := domain.Result{
		Verdict: domain.Reject,
		Trace:   make([]domain.Step, 0, len(input)),
	}

	for pos, sym := range input {
		step := domain.Step{Position: pos, Symbol: sym, From: current}

		row, hasRow := e.Machine.RowOf(current)
		col, known := e.Machine.Column(sym)
		switch {
		case !hasRow:
			step.Outcome = domain.OutcomeNoRow
		case !known:
			step.Outcome = domain.OutcomeUnknownSymbol
		default:
			if dst, ok := cell(row, col).Dest(); ok {
				step.To = domain.To(dst)
				step.Outcome = domain.OutcomeMoved
			} else {
				step.Outcome = domain.OutcomeNoTransition
			}
		}

		res.Trace = append(res.Trace, step)
		res.Consumed = pos + 1
		e.emitStep(ctx, step)

		if step.Outcome.Rejects() {
			res.Final = current
			e.emitVerdict(ctx, input, res)
			return res
		}
		current, _ = step.To.Dest()
	}

	res.Final = current
	if e.Machine.IsAccept(current) {
		res.Verdict = domain.Accept
	}
	e.emitVerdict(ctx, input, res)
	return res
}

func (e *Evaluator) emitStep(ctx context.Context, step domain.Step) {
	if e.Hooks.OnStep == nil {
		return
	}
	e.Hooks.OnStep(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, Automaton: e.Name},
		Step:      step,
	})
}

func (e *Evaluator) emitVerdict(ctx context.Context, input []domain.Symbol, res domain.Result) {
	if e.Hooks.OnVerdict == nil {
		return
	}
	e.Hooks.OnVerdict(ctx, &domain.VerdictEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventVerdict, Automaton: e.Name},
		Input:     symbolsString(input),
		Result:    res,
	})
}

// cell guards against rows narrower than the alphabet.
func cell(row domain.Row, col int) domain.Target {
	if col >= len(row) {
		return domain.None
	}
	return row[col]
}

func symbolsString(input []domain.Symbol) string {
	runes := make([]rune, len(input))
	for i, s := range input {
		runes[i] = rune(s)
	}
	return string(runes)
}
