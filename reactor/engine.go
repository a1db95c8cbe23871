package reactor

import (
	"sync/atomic"

	"github.com/momentics/netkit/api"
)

// Engine composes N independent, single-threaded Reactors to achieve
// multi-core scaling: sessions are sharded across reactors round-robin at
// accept time (spec §5), each reactor remaining single-threaded relative to
// itself.
type Engine struct {
	reactors []*Reactor
	next     atomic.Uint64
}

// NewEngine builds n reactors (n < 1 is clamped to 1), all sharing the same
// handlers, but each running its own worker goroutine. The polling argument
// is not used here; the mode is the one passed to Start.
func NewEngine(n int, polling bool, handlers api.Handlers) *Engine {
	if n < 1 {
		n = 1
	}
	e := &Engine{reactors: make([]*Reactor, n)}
	for i := range e.reactors {
		e.reactors[i] = New(WithHandlers(handlers))
	}
	_ = polling
	return e
}

// Start starts every reactor in the engine with the given polling mode.
func (e *Engine) Start(polling bool) {
	for _, r := range e.reactors {
		r.Start(polling)
	}
}

// Stop stops every reactor in the engine, draining their completions.
func (e *Engine) Stop() {
	for _, r := range e.reactors {
		r.Stop()
	}
}

// Next returns the reactor a new session should be assigned to, advancing
// the round-robin cursor.
func (e *Engine) Next() *Reactor {
	i := e.next.Add(1) - 1
	return e.reactors[i%uint64(len(e.reactors))]
}

// Reactors returns the underlying reactor slice for callers that need to
// iterate all of them (e.g. disconnect_all).
func (e *Engine) Reactors() []*Reactor {
	return e.reactors
}

// Len returns the number of reactors in the engine.
func (e *Engine) Len() int { return len(e.reactors) }
