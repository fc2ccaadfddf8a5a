package records

import (
	"context"
	"sync"
)

// State is the tracker's slot: idle, or deleting one record id.
type State struct {
	Deleting bool
	ID       string
}

// Idle is the empty slot.
var Idle = State{}

// DeleteFunc issues the delete call for id.
type DeleteFunc func(ctx context.Context, id string) error

// Tracker holds at most one record id whose delete is in flight.
//
// Starting a delete moves the slot to deleting(id) and issues the call in the same
// step. When that call settles, successfully or not, the slot returns to idle if it
// still holds id. Starting another delete while one is in flight does not block:
// both calls run, and only the most recent id occupies the slot. There is no
// timeout, so a call that never settles keeps its id in the slot.
type Tracker struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
}

// NewTracker returns an idle tracker. onChange, if set, observes every transition.
func NewTracker(onChange func(State)) *Tracker {
	return &Tracker{onChange: onChange}
}

// State returns the current slot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsDeleting reports whether id occupies the slot.
func (t *Tracker) IsDeleting(id string) bool {
	s := t.State()
	return s.Deleting && s.ID == id
}

// Start moves to deleting(id), issues call and returns a channel that yields the
// call's result once it has settled and the slot has been updated.
func (t *Tracker) Start(ctx context.Context, id string, call DeleteFunc) <-chan error {
	done := make(chan error, 1)
	t.set(State{Deleting: true, ID: id})
	go func() {
		err := call(ctx, id)
		t.settle(id)
		done <- err
		close(done)
	}()
	return done
}

func (t *Tracker) settle(id string) {
	t.mu.Lock()
	if !t.state.Deleting || t.state.ID != id {
		t.mu.Unlock()
		return
	}
	t.state = Idle
	t.mu.Unlock()
	t.notify(Idle)
}

func (t *Tracker) set(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	t.notify(s)
}

func (t *Tracker) notify(s State) {
	if t.onChange != nil {
		t.onChange(s)
	}
}
