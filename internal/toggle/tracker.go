// Package toggle tracks the user-owned membership relations (favourite
// organisations, event registrations, saved materials) while their server
// round trips are in flight.
package toggle

import (
	"context"
	"errors"
	"sync"
)

var ErrSubmitting = errors.New("a change for this item is already being submitted")

type Kind string

const (
	Favorite     Kind = "favorite"
	Registration Kind = "registration"
	Saved        Kind = "saved"
)

type Key struct {
	Owner string
	Kind  Kind
	Item  int
}

type Phase int

const (
	Committed Phase = iota
	Pending
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "committed"
	}
}

// State is the record of one key. Active is always the last committed
// value; Want is the value being submitted while Pending.
type State struct {
	Phase  Phase
	Active bool
	Want   bool
	Err    error
}

// RoundTrip performs the server call that makes the relation active (want
// true) or inactive.
type RoundTrip func(ctx context.Context, want bool) error

type Tracker struct {
	mu     sync.Mutex
	states map[Key]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[Key]State)}
}

// Seed records an already known committed value unless the key is pending.
func (t *Tracker) Seed(k Key, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.states[k]; ok && s.Phase == Pending {
		return
	}
	t.states[k] = State{Phase: Committed, Active: active}
}

func (t *Tracker) State(k Key) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[k]

	return s, ok
}

// Set drives k to want. The committed value only changes after rt
// succeeded; on failure it stays at its previous value and the key is
// marked Failed. A second Set for a pending key returns ErrSubmitting.
func (t *Tracker) Set(ctx context.Context, k Key, want bool, rt RoundTrip) (bool, error) {
	t.mu.Lock()
	prev := t.states[k]
	if prev.Phase == Pending {
		t.mu.Unlock()
		return prev.Active, ErrSubmitting
	}
	t.states[k] = State{Phase: Pending, Active: prev.Active, Want: want}
	t.mu.Unlock()

	err := rt(ctx, want)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.states[k] = State{Phase: Failed, Active: prev.Active, Want: want, Err: err}
		return prev.Active, err
	}
	t.states[k] = State{Phase: Committed, Active: want}

	return want, nil
}

// Forget drops every key of owner.
func (t *Tracker) Forget(owner string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for k := range t.states {
		if k.Owner == owner {
			delete(t.states, k)
		}
	}
}
