package runtime

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/delta/pkg/domain"
)

// Table stores interned transition rows and the state -> row assignment.
// Many states may share one row; rows never change once defined.
type Table struct {
	nextRow domain.RowID
	rows    map[domain.RowID]domain.Row
	assign  map[domain.StateID]domain.RowID
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		rows:   make(map[domain.RowID]domain.Row),
		assign: make(map[domain.StateID]domain.RowID),
	}
}

// Define stores a copy of row under a fresh id. The row must have exactly
// width cells and every destination must satisfy live.
func (t *Table) Define(row domain.Row, width int, live func(domain.StateID) bool) (domain.RowID, error) {
	if len(row) != width {
		return 0, fmt.Errorf("%w: got %d cells, alphabet has %d symbols", domain.ErrRowArity, len(row), width)
	}
	for col, cell := range row {
		if dst, ok := cell.Dest(); ok && !live(dst) {
			return 0, fmt.Errorf("%w: destination %s in column %d", domain.ErrInvalidState, dst, col)
		}
	}

	id := t.nextRow
	t.nextRow++
	t.rows[id] = row.Clone()
	return id, nil
}

// Assign makes state use row. A later call for the same state wins.
func (t *Table) Assign(state domain.StateID, row domain.RowID, live func(domain.StateID) bool) error {
	if !live(state) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidState, state)
	}
	if _, ok := t.rows[row]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrInvalidRow, row)
	}
	t.assign[state] = row
	return nil
}

// Reset drops every row and assignment. The row counter keeps running so
// ids handed out earlier are never reused.
func (t *Table) Reset() {
	clear(t.rows)
	clear(t.assign)
}

// Row returns a copy of the row with the given id.
func (t *Table) Row(id domain.RowID) (domain.Row, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return row.Clone(), true
}

// RowOf returns the row assigned to state. The returned row is shared and
// must not be modified.
func (t *Table) RowOf(state domain.StateID) (domain.Row, bool) {
	id, ok := t.assign[state]
	if !ok {
		return nil, false
	}
	row, ok := t.rows[id]
	return row, ok
}

// RowIDs returns defined row ids in ascending order.
func (t *Table) RowIDs() []domain.RowID {
	return slices.Sorted(maps.Keys(t.rows))
}

// Rows returns a deep copy of the row store.
func (t *Table) Rows() map[domain.RowID]domain.Row {
	out := make(map[domain.RowID]domain.Row, len(t.rows))
	for id, row := range t.rows {
		out[id] = row.Clone()
	}
	return out
}

// Assignments returns a copy of the state -> row mapping.
func (t *Table) Assignments() map[domain.StateID]domain.RowID {
	return maps.Clone(t.assign)
}
