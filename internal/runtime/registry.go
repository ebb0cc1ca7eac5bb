package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/delta/pkg/domain"
)

// Registry owns the live state set, the start state and the accept subset.
// Allocation starts a new generation: everything that referenced the previous
// generation is dropped.
type Registry struct {
	next   domain.StateID
	live   []domain.StateID
	index  map[domain.StateID]struct{}
	start  domain.StateID
	accept map[domain.StateID]struct{}
}

// NewRegistry creates an empty registry whose first id will be base.
// Negative bases are clamped to zero so ids never collide with NoState.
func NewRegistry(base int) *Registry {
	if base < 0 {
		base = 0
	}
	return &Registry{
		next:   domain.StateID(base),
		index:  make(map[domain.StateID]struct{}),
		start:  domain.NoState,
		accept: make(map[domain.StateID]struct{}),
	}
}

// Allocate replaces the live set with count fresh, consecutive ids.
// The start state moves to the first new id and the accept set is cleared.
func (r *Registry) Allocate(count int) ([]domain.StateID, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidCount, count)
	}

	live := make([]domain.StateID, count)
	index := make(map[domain.StateID]struct{}, count)
	for i := range live {
		live[i] = r.next
		index[r.next] = struct{}{}
		r.next++
	}

	r.live = live
	r.index = index
	r.start = live[0]
	clear(r.accept)

	return slices.Clone(live), nil
}

// Contains reports whether id belongs to the current generation.
func (r *Registry) Contains(id domain.StateID) bool {
	_, ok := r.index[id]
	return ok
}

// States returns the live ids in allocation order.
func (r *Registry) States() []domain.StateID {
	return slices.Clone(r.live)
}

// SetStart makes id the start state.
func (r *Registry) SetStart(id domain.StateID) error {
	if !r.Contains(id) {
		return fmt.Errorf("%w: start state %s", domain.ErrInvalidState, id)
	}
	r.start = id
	return nil
}

// Start returns the start state, or NoState before the first allocation.
func (r *Registry) Start() domain.StateID {
	return r.start
}

// AddAccept adds ids to the accept set. All ids are validated first, so a
// failing call leaves the set untouched.
func (r *Registry) AddAccept(ids ...domain.StateID) error {
	for _, id := range ids {
		if !r.Contains(id) {
			return fmt.Errorf("%w: accept state %s", domain.ErrInvalidState, id)
		}
	}
	for _, id := range ids {
		r.accept[id] = struct{}{}
	}
	return nil
}

// ClearAccept empties the accept set.
func (r *Registry) ClearAccept() {
	clear(r.accept)
}

// IsAccept reports whether id is an accept state.
func (r *Registry) IsAccept(id domain.StateID) bool {
	_, ok := r.accept[id]
	return ok
}

// Accept returns the accept set in ascending order.
func (r *Registry) Accept() []domain.StateID {
	out := make([]domain.StateID, 0, len(r.accept))
	for id := range r.accept {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
