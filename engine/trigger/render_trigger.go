// Package trigger provides the subscribe/notify abstraction that drives redraws.
// Frames are only produced in response to a Notify call, never on a timer.
package trigger

import (
	"sync"
)

// Reason identifies why a redraw was requested.
type Reason int

const (
	// ReasonLoad is sent once when the application finishes assembling its scene.
	ReasonLoad Reason = iota

	// ReasonControlChange is sent whenever the camera controls move the camera.
	ReasonControlChange

	// ReasonResize is sent after the window framebuffer changes size.
	ReasonResize
)

// String returns a short lowercase label for the reason, used in log output.
func (r Reason) String() string {
	switch r {
	case ReasonLoad:
		return "load"
	case ReasonControlChange:
		return "control"
	case ReasonResize:
		return "resize"
	default:
		return "unknown"
	}
}

type subscription struct {
	id uint64
	fn func(Reason)
}

// renderTrigger is the implementation of the RenderTrigger interface.
type renderTrigger struct {
	mu *sync.Mutex

	nextID uint64
	subs   []subscription
	counts map[Reason]uint64

	dispatching bool
	pending     []Reason
}

// RenderTrigger fans redraw requests out to subscribers.
//
// Notify runs every subscriber synchronously on the calling goroutine in subscription order.
// A Notify issued from inside a subscriber is not dispatched recursively; it is queued and
// delivered once after the current dispatch returns, with repeated reasons collapsed.
type RenderTrigger interface {
	// Subscribe registers fn to be called on every Notify.
	//
	// Parameters:
	//   - fn: the callback to run with the reason of each redraw request
	//
	// Returns:
	//   - func(): removes the subscription; safe to call more than once
	Subscribe(fn func(reason Reason)) (unsubscribe func())

	// Notify requests a redraw for the given reason.
	//
	// Parameters:
	//   - reason: why the redraw is being requested
	Notify(reason Reason)

	// Count returns how many times Notify has been called with the given reason.
	//
	// Parameters:
	//   - reason: the reason to count
	//
	// Returns:
	//   - uint64: the number of notifications received for reason
	Count(reason Reason) uint64
}

var _ RenderTrigger = &renderTrigger{}

// NewRenderTrigger creates an empty RenderTrigger.
//
// Returns:
//   - RenderTrigger: a trigger with no subscribers
func NewRenderTrigger() RenderTrigger {
	return &renderTrigger{
		mu:     &sync.Mutex{},
		counts: make(map[Reason]uint64),
	}
}

func (t *renderTrigger) Subscribe(fn func(reason Reason)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (t *renderTrigger) Notify(reason Reason) {
	t.mu.Lock()
	t.counts[reason]++
	if t.dispatching {
		for _, p := range t.pending {
			if p == reason {
				t.mu.Unlock()
				return
			}
		}
		t.pending = append(t.pending, reason)
		t.mu.Unlock()
		return
	}
	t.dispatching = true
	t.mu.Unlock()

	done := false
	defer func() {
		// A panicking subscriber must not leave the trigger deaf to later notifies.
		if !done {
			t.mu.Lock()
			t.dispatching = false
			t.pending = nil
			t.mu.Unlock()
		}
	}()

	next := []Reason{reason}
	for len(next) > 0 {
		for _, r := range next {
			t.dispatch(r)
		}

		t.mu.Lock()
		next = t.pending
		t.pending = nil
		if len(next) == 0 {
			t.dispatching = false
		}
		t.mu.Unlock()
	}
	done = true
}

func (t *renderTrigger) Count(reason Reason) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[reason]
}

// dispatch snapshots the subscriber list so callbacks may subscribe or unsubscribe freely.
func (t *renderTrigger) dispatch(reason Reason) {
	t.mu.Lock()
	subs := make([]subscription, len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	for _, s := range subs {
		s.fn(reason)
	}
}
