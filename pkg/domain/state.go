package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StateID identifies a state of an automaton.
// IDs are handed out by the automaton's registry and are never reused.
type StateID int

// NoState is the StateID reported when an automaton has no start state yet.
const NoState StateID = -1

// String renders the id the way traces print it (q<n>).
func (s StateID) String() string {
	if s == NoState {
		return "q?"
	}
	return "q" + strconv.Itoa(int(s))
}

// RowID identifies a transition row. Row ids are never reused.
type RowID int

// Symbol is a single input symbol.
type Symbol rune

func (s Symbol) String() string {
	return string(s)
}

// MarshalText encodes the symbol as its one-rune string form.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(s)), nil
}

// UnmarshalText decodes a one-rune string.
func (s *Symbol) UnmarshalText(text []byte) error {
	runes := []rune(string(text))
	if len(runes) != 1 {
		return fmt.Errorf("symbol must be exactly one rune, got %q", text)
	}
	*s = Symbol(runes[0])
	return nil
}

// Symbols splits a string into its symbols.
func Symbols(input string) []Symbol {
	out := make([]Symbol, 0, len(input))
	for _, r := range input {
		out = append(out, Symbol(r))
	}
	return out
}

// Target is one cell of a transition row: either a destination state or
// "no transition". The zero value is None.
type Target struct {
	state StateID
	ok    bool
}

// None is the "no transition" cell.
var None = Target{}

// To returns a cell that moves to s.
func To(s StateID) Target {
	return Target{state: s, ok: true}
}

// Dest returns the destination state and whether the cell has one.
func (t Target) Dest() (StateID, bool) {
	return t.state, t.ok
}

// IsNone reports whether the cell is "no transition".
func (t Target) IsNone() bool {
	return !t.ok
}

func (t Target) String() string {
	if !t.ok {
		return "-"
	}
	return t.state.String()
}

// MarshalJSON encodes a destination as its numeric id and None as null.
func (t Target) MarshalJSON() ([]byte, error) {
	if !t.ok {
		return []byte("null"), nil
	}
	return json.Marshal(int(t.state))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Target) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = None
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid transition target: %w", err)
	}
	*t = To(StateID(id))
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (t Target) MarshalYAML() (any, error) {
	if !t.ok {
		return nil, nil
	}
	return int(t.state), nil
}
