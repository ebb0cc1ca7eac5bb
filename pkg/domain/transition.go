package domain

// Row is one line of the transition table, one Target per alphabet column.
type Row []Target

// Clone returns a copy of the row so stored rows stay immutable.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Equal reports whether two rows have the same cells.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Table is a read-only snapshot of an automaton's definition.
// Renderers and adapters consume it instead of reaching into the automaton.
type Table struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	States      []StateID         `json:"states" yaml:"states"`
	Start       StateID           `json:"start" yaml:"start"`
	Accept      []StateID         `json:"accept" yaml:"accept"`
	Sigma       []Symbol          `json:"sigma" yaml:"sigma"`
	Rows        map[RowID]Row     `json:"rows" yaml:"rows"`
	Assignments map[StateID]RowID `json:"assignments" yaml:"assignments"`
}

// IsAccept reports whether s is in the snapshot's accept set.
func (t Table) IsAccept(s StateID) bool {
	for _, a := range t.Accept {
		if a == s {
			return true
		}
	}
	return false
}

// RowOf returns the row assigned to s, if any.
func (t Table) RowOf(s StateID) (Row, bool) {
	id, ok := t.Assignments[s]
	if !ok {
		return nil, false
	}
	row, ok := t.Rows[id]
	return row, ok
}
