package runtime

import (
	"slices"

	"github.com/aretw0/delta/pkg/domain"
)

// Alphabet maps each symbol to a stable, zero-based column.
type Alphabet struct {
	symbols []domain.Symbol
	columns map[domain.Symbol]int
}

// NewAlphabet builds an index from symbols, dropping duplicates and keeping
// the order of first occurrence.
func NewAlphabet(symbols ...domain.Symbol) *Alphabet {
	a := &Alphabet{
		symbols: make([]domain.Symbol, 0, len(symbols)),
		columns: make(map[domain.Symbol]int, len(symbols)),
	}
	for _, s := range symbols {
		if _, dup := a.columns[s]; dup {
			continue
		}
		a.columns[s] = len(a.symbols)
		a.symbols = append(a.symbols, s)
	}
	return a
}

// Column returns the column of s.
func (a *Alphabet) Column(s domain.Symbol) (int, bool) {
	col, ok := a.columns[s]
	return col, ok
}

// Size is the width every transition row must have.
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// Symbols returns the alphabet in column order.
func (a *Alphabet) Symbols() []domain.Symbol {
	return slices.Clone(a.symbols)
}
