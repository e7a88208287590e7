// Package bundler defines the narrow capability cra-watch needs from a
// module bundler, a persistent watch session that reports compilation
// lifecycle events, and provides an esbuild implementation of it.
package bundler

import (
	"context"
	"sync"
)

// EventKind distinguishes the two lifecycle notifications of a watch session.
type EventKind int

const (
	// Invalidated means a source change was detected and a rebuild started.
	Invalidated EventKind = iota + 1
	// Done means a compilation pass finished; the event carries its Result.
	Done
)

func (k EventKind) String() string {
	switch k {
	case Invalidated:
		return "invalidated"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Result is the outcome of one compilation pass.
type Result struct {
	// Assets are the declared output files, relative to the build root,
	// using forward slashes.
	Assets []string
	// Errors and Warnings are normalised, human readable messages.
	Errors   []string
	Warnings []string
}

// Event is a single notification from the bundler.
type Event struct {
	Kind   EventKind
	Result *Result

	ack func()
}

// NewEvent returns an event without an acknowledgement hook.
func NewEvent(kind EventKind, result *Result) Event {
	return Event{Kind: kind, Result: result}
}

// NewTrackedEvent returns an event and a channel that is closed once the
// event is acknowledged. Bundler implementations use it to wait for the
// consumer before continuing.
func NewTrackedEvent(kind EventKind, result *Result) (Event, <-chan struct{}) {
	handled := make(chan struct{})

	var once sync.Once

	ev := Event{Kind: kind, Result: result, ack: func() { once.Do(func() { close(handled) }) }}

	return ev, handled
}

// Ack tells the producer that the event was fully handled. It is safe to
// call more than once.
func (e Event) Ack() {
	if e.ack != nil {
		e.ack()
	}
}

// Bundler starts a watch session. Events are delivered in order on the
// returned channel until ctx is cancelled.
type Bundler interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// emitter delivers events and blocks until each one is acknowledged, so the
// consumer's handling of an event never overlaps the next compilation.
type emitter struct {
	ctx    context.Context
	events chan Event
}

func newEmitter(ctx context.Context) *emitter {
	return &emitter{ctx: ctx, events: make(chan Event)}
}

// emit reports whether the event was handled before ctx ended.
func (em *emitter) emit(kind EventKind, result *Result) bool {
	ev, handled := NewTrackedEvent(kind, result)

	select {
	case em.events <- ev:
	case <-em.ctx.Done():
		return false
	}

	select {
	case <-handled:
		return true
	case <-em.ctx.Done():
		return false
	}
}
