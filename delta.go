package delta

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/delta/internal/runtime"
	"github.com/aretw0/delta/pkg/domain"
)

// Automaton is a deterministic finite automaton assembled through the
// construction methods and evaluated with Check.
//
// An Automaton is not safe for concurrent mutation. Once construction is
// finished, any number of goroutines may call Check concurrently.
type Automaton struct {
	registry *runtime.Registry
	alphabet *runtime.Alphabet
	table    *runtime.Table
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	base     int
	Name     string
}

// Option defines a functional option for configuring the Automaton.
type Option func(*Automaton)

// WithBaseState sets the first state id handed out (default 0).
// Starting at 1 makes traces read q1, q2, ... like textbook tables.
func WithBaseState(base int) Option {
	return func(a *Automaton) {
		a.base = base
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Automaton) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the automaton.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Automaton) {
		a.logger = logger
	}
}

// WithName labels the automaton in logs, events and run records.
func WithName(name string) Option {
	return func(a *Automaton) {
		a.Name = name
	}
}

// New creates an empty automaton: no states, an empty alphabet, no rows.
func New(opts ...Option) *Automaton {
	a := &Automaton{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if a.Name != "" {
		a.logger = a.logger.With("automaton", a.Name)
	}

	a.registry = runtime.NewRegistry(a.base)
	a.alphabet = runtime.NewAlphabet()
	a.table = runtime.NewTable()
	return a
}

// UseStates replaces the live state set with count fresh ids and returns them
// in order. The start state becomes the first new id; accept states, rows and
// assignments from the previous set are discarded since they can only refer
// to states that no longer exist.
func (a *Automaton) UseStates(count int) ([]domain.StateID, error) {
	ids, err := a.registry.Allocate(count)
	if err != nil {
		a.logger.Warn("state allocation rejected", "count", count, "error", err)
		return nil, err
	}
	a.table.Reset()
	a.logger.Debug("states allocated", "count", count, "first", ids[0], "last", ids[len(ids)-1])
	return ids, nil
}

// SetStartState sets q0.
func (a *Automaton) SetStartState(id domain.StateID) error {
	if err := a.registry.SetStart(id); err != nil {
		a.logger.Warn("start state rejected", "state", id, "error", err)
		return err
	}
	return nil
}

// SetAcceptStates adds ids to the accept set. Either every id is added or,
// on the first unknown id, none is.
func (a *Automaton) SetAcceptStates(ids ...domain.StateID) error {
	if err := a.registry.AddAccept(ids...); err != nil {
		a.logger.Warn("accept states rejected", "states", ids, "error", err)
		return err
	}
	return nil
}

// ClearAcceptStates empties the accept set.
func (a *Automaton) ClearAcceptStates() {
	a.registry.ClearAccept()
}

// UseSigma sets the alphabet. Duplicates are dropped, first occurrence wins.
// Rows describe columns of the previous alphabet, so rows and assignments
// are discarded and must be defined again.
func (a *Automaton) UseSigma(symbols ...domain.Symbol) {
	a.alphabet = runtime.NewAlphabet(symbols...)
	a.table.Reset()
	a.logger.Debug("alphabet set", "size", a.alphabet.Size())
}

// DefineTransition stores a transition row, one cell per alphabet symbol in
// alphabet order, and returns its id. Use domain.None for "no transition".
func (a *Automaton) DefineTransition(row ...domain.Target) (domain.RowID, error) {
	id, err := a.table.Define(row, a.alphabet.Size(), a.registry.Contains)
	if err != nil {
		a.logger.Warn("transition row rejected", "width", len(row), "error", err)
		return 0, err
	}
	a.logger.Debug("transition row defined", "row", id)
	return id, nil
}

// UseTransition assigns row to state, replacing any previous assignment.
// Several states may share a row.
func (a *Automaton) UseTransition(state domain.StateID, row domain.RowID) error {
	if err := a.table.Assign(state, row, a.registry.Contains); err != nil {
		a.logger.Warn("transition assignment rejected", "state", state, "row", row, "error", err)
		return err
	}
	return nil
}

// Check evaluates input, one symbol per rune.
func (a *Automaton) Check(input string) domain.Result {
	return a.CheckContext(context.Background(), input)
}

// CheckContext is Check with a context handed to lifecycle hooks.
func (a *Automaton) CheckContext(ctx context.Context, input string) domain.Result {
	return a.CheckSymbols(ctx, domain.Symbols(input))
}

// CheckSymbols evaluates an already split input.
func (a *Automaton) CheckSymbols(ctx context.Context, input []domain.Symbol) domain.Result {
	ev := runtime.Evaluator{Machine: view{a}, Hooks: a.hooks, Name: a.Name}
	res := ev.Evaluate(ctx, input)
	a.logger.Debug("input evaluated", "verdict", res.Verdict, "consumed", res.Consumed, "final", res.Final)
	return res
}

// States returns the live states in allocation order.
func (a *Automaton) States() []domain.StateID {
	return a.registry.States()
}

// StartState returns q0, or domain.NoState if no states were allocated.
func (a *Automaton) StartState() domain.StateID {
	return a.registry.Start()
}

// AcceptStates returns the accept set in ascending order.
func (a *Automaton) AcceptStates() []domain.StateID {
	return a.registry.Accept()
}

// Sigma returns the alphabet in column order.
func (a *Automaton) Sigma() []domain.Symbol {
	return a.alphabet.Symbols()
}

// Rows returns a copy of every defined transition row.
func (a *Automaton) Rows() map[domain.RowID]domain.Row {
	return a.table.Rows()
}

// Assignments returns a copy of the state -> row mapping.
func (a *Automaton) Assignments() map[domain.StateID]domain.RowID {
	return a.table.Assignments()
}

// Snapshot returns a read-only copy of the whole definition.
func (a *Automaton) Snapshot() domain.Table {
	return domain.Table{
		Name:        a.Name,
		States:      a.States(),
		Start:       a.StartState(),
		Accept:      a.AcceptStates(),
		Sigma:       a.Sigma(),
		Rows:        a.Rows(),
		Assignments: a.Assignments(),
	}
}

// view adapts an Automaton to runtime.Machine without exporting the
// evaluator-facing lookups.
type view struct{ a *Automaton }

func (v view) Start() domain.StateID                     { return v.a.registry.Start() }
func (v view) IsAccept(s domain.StateID) bool            { return v.a.registry.IsAccept(s) }
func (v view) Column(s domain.Symbol) (int, bool)        { return v.a.alphabet.Column(s) }
func (v view) RowOf(s domain.StateID) (domain.Row, bool) { return v.a.table.RowOf(s) }
