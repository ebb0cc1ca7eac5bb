package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep    EventType = "step"
	EventVerdict EventType = "verdict"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Automaton string    `json:"automaton,omitempty"`
}

// StepEvent is emitted after each trace entry is recorded.
type StepEvent struct {
	EventBase
	Step Step `json:"step"`
}

// VerdictEvent is emitted once per run, after the last step.
type VerdictEvent struct {
	EventBase
	Input  string `json:"input"`
	Result Result `json:"result"`
}

// LifecycleHooks defines callbacks for evaluation observability.
// Hooks run synchronously on the evaluating goroutine.
type LifecycleHooks struct {
	OnStep    func(context.Context, *StepEvent)
	OnVerdict func(context.Context, *VerdictEvent)
}
