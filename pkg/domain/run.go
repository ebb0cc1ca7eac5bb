package domain

import (
	"fmt"
	"time"
)

// Verdict is the outcome of one evaluation.
type Verdict int

const (
	Reject Verdict = iota
	Accept
)

func (v Verdict) String() string {
	if v == Accept {
		return "accept"
	}
	return "reject"
}

// MarshalText encodes the verdict as "accept" or "reject".
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "accept":
		*v = Accept
	case "reject":
		*v = Reject
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

// Outcome describes what happened when a single symbol was read.
type Outcome string

const (
	OutcomeMoved         Outcome = "moved"          // Destination found, run continues
	OutcomeNoRow         Outcome = "no_row"         // Current state has no transition row
	OutcomeUnknownSymbol Outcome = "unknown_symbol" // Symbol is not in the alphabet
	OutcomeNoTransition  Outcome = "no_transition"  // Row cell is None
)

// Rejects reports whether the outcome ends the run.
func (o Outcome) Rejects() bool {
	return o != OutcomeMoved
}

// Step is one trace entry: the symbol read at Position while in From.
// To is None for every rejecting outcome.
type Step struct {
	Position int     `json:"position" yaml:"position"`
	Symbol   Symbol  `json:"symbol" yaml:"symbol"`
	From     StateID `json:"from" yaml:"from"`
	To       Target  `json:"to" yaml:"to"`
	Outcome  Outcome `json:"outcome" yaml:"outcome"`
}

// Result is the verdict of a run plus its trace.
type Result struct {
	Verdict Verdict `json:"verdict" yaml:"verdict"`
	// Final is the state the run stopped in.
	Final StateID `json:"final" yaml:"final"`
	// Consumed counts the symbols read, including a rejecting one.
	Consumed int    `json:"consumed" yaml:"consumed"`
	Trace    []Step `json:"trace" yaml:"trace"`
}

// Accepted is shorthand for Verdict == Accept.
func (r Result) Accepted() bool {
	return r.Verdict == Accept
}

// Run is a stored evaluation record, kept for diagnostics.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Automaton string    `json:"automaton,omitempty" yaml:"automaton,omitempty"`
	Input     string    `json:"input" yaml:"input"`
	Result    Result    `json:"result" yaml:"result"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Sealed holds the encrypted record when the store encrypts runs.
	// Input and Trace are then empty.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}
