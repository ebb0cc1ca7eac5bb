package domain

import "errors"

// Construction errors. They signal misuse of the builder API and are
// returned wrapped with context; compare with errors.Is.
var (
	// ErrInvalidCount is returned when fewer than one state is requested.
	ErrInvalidCount = errors.New("invalid number of states (min = 1)")

	// ErrInvalidState is returned when a state id is not in the live state set.
	ErrInvalidState = errors.New("invalid state id")

	// ErrInvalidRow is returned when a transition row id was never defined.
	ErrInvalidRow = errors.New("invalid transition row id")

	// ErrRowArity is returned when a row's width differs from the alphabet size.
	ErrRowArity = errors.New("transition row width must match the alphabet size")
)

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")
