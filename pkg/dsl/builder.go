package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/pkg/domain"
)

// ErrConflictingTransition is returned when a state maps one symbol to two
// different destinations.
var ErrConflictingTransition = errors.New("conflicting transition")

// Builder manages the automaton construction.
type Builder struct {
	states map[string]*StateBuilder
	order  []string
	sigma  []domain.Symbol
	start  string
	errs   []error
}

// New creates a new automaton builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Add declares a named state.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		name:    name,
		builder: b,
		edges:   make(map[domain.Symbol]string),
	}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Sigma fixes the alphabet and its column order. Without it the alphabet is
// every symbol used by On, in order of first use.
func (b *Builder) Sigma(symbols ...domain.Symbol) *Builder {
	b.sigma = append(b.sigma, symbols...)
	return b
}

// Automaton is what Build produces: the configured automaton plus the
// state ids assigned to each name.
type Automaton struct {
	*delta.Automaton
	IDs map[string]domain.StateID
}

// State returns the id of a named state.
func (a *Automaton) State(name string) (domain.StateID, bool) {
	id, ok := a.IDs[name]
	return id, ok
}

// Build compiles the declarations into an automaton. States whose outgoing
// transitions are identical share one transition row.
func (b *Builder) Build(opts ...delta.Option) (*Automaton, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	a := delta.New(opts...)
	ids, err := a.UseStates(len(b.order))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate states: %w", err)
	}
	byName := make(map[string]domain.StateID, len(b.order))
	for i, name := range b.order {
		byName[name] = ids[i]
	}

	sigma := b.alphabet()
	a.UseSigma(sigma...)
	sigma = a.Sigma()

	type interned struct {
		row domain.Row
		id  domain.RowID
	}
	var rows []interned
	var accept []domain.StateID

	for _, name := range b.order {
		sb := b.states[name]
		if sb.accept {
			accept = append(accept, byName[name])
		}
		if len(sb.edges) == 0 {
			continue
		}

		row := make(domain.Row, len(sigma))
		for col, sym := range sigma {
			to, ok := sb.edges[sym]
			if !ok {
				continue
			}
			dst, known := byName[to]
			if !known {
				return nil, fmt.Errorf("%w: state %q moves on %q to undeclared state %q", domain.ErrInvalidState, name, sym, to)
			}
			row[col] = domain.To(dst)
		}
		for sym := range sb.edges {
			if _, ok := indexOf(sigma, sym); !ok {
				return nil, fmt.Errorf("state %q uses symbol %q outside the alphabet", name, sym)
			}
		}

		var rowID domain.RowID
		found := false
		for _, r := range rows {
			if r.row.Equal(row) {
				rowID, found = r.id, true
				break
			}
		}
		if !found {
			rowID, err = a.DefineTransition(row...)
			if err != nil {
				return nil, fmt.Errorf("failed to define row for %q: %w", name, err)
			}
			rows = append(rows, interned{row: row, id: rowID})
		}
		if err := a.UseTransition(byName[name], rowID); err != nil {
			return nil, err
		}
	}

	if b.start != "" {
		if err := a.SetStartState(byName[b.start]); err != nil {
			return nil, err
		}
	}
	if err := a.SetAcceptStates(accept...); err != nil {
		return nil, err
	}

	return &Automaton{Automaton: a, IDs: byName}, nil
}

func (b *Builder) alphabet() []domain.Symbol {
	if len(b.sigma) > 0 {
		return b.sigma
	}
	var sigma []domain.Symbol
	seen := make(map[domain.Symbol]bool)
	for _, name := range b.order {
		for _, sym := range b.states[name].symbols {
			if !seen[sym] {
				seen[sym] = true
				sigma = append(sigma, sym)
			}
		}
	}
	return sigma
}

func indexOf(sigma []domain.Symbol, sym domain.Symbol) (int, bool) {
	for i, s := range sigma {
		if s == sym {
			return i, true
		}
	}
	return 0, false
}
