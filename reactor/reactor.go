// Package reactor implements the single-threaded cooperative event loop
// described in spec §4.1: one worker goroutine per Reactor, a post/dispatch
// primitive, and an onError/fatal boundary. Multi-core scaling is achieved
// by composing several Reactors into an Engine (engine.go) and sharding
// sessions across them at accept time.
package reactor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/momentics/netkit/api"
)

// State enumerates the reactor lifecycle.
type State int32

const (
	StateInitial State = iota
	StateRunning
	StateStopping
	StateStopped
)

// Task is a unit of work run on the reactor's worker goroutine.
type Task func()

// Reactor is a single-threaded cooperative scheduler. Suspension points are
// the I/O primitives owned by sessions (accept/connect/read/write/handshake)
// which, in this Go rendition, suspend the calling goroutine rather than the
// reactor itself — the reactor's own loop never blocks except when idle and
// not polling, when it waits for a wake-up or a backoff timer of at most 1ms.
type Reactor struct {
	handlers api.Handlers
	polling  bool

	mu    sync.Mutex
	tasks *queue.Queue
	wake  chan struct{}

	state    atomic.Int32
	workerID atomic.Int64 // goroutine identity of the current worker, 0 if not running

	quit chan struct{}
	done chan struct{}
}

// Option configures a Reactor at construction.
type Option func(*Reactor)

// WithHandlers attaches the capability object used for onStarted/onStopped/
// onIdle/onThreadInitialize/onThreadCleanup/onError.
func WithHandlers(h api.Handlers) Option {
	return func(r *Reactor) { r.handlers = h }
}

// New constructs a Reactor in StateInitial. It does not start the worker
// goroutine; call Start for that.
func New(opts ...Option) *Reactor {
	r := &Reactor{
		tasks: queue.New(),
		wake:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start is idempotent: it returns false if the reactor is already running,
// otherwise spawns the worker goroutine and enqueues onStarted as the first
// task the worker executes, per spec §4.1.
func (r *Reactor) Start(polling bool) bool {
	if !r.state.CompareAndSwap(int32(StateInitial), int32(StateRunning)) &&
		!r.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return false
	}
	r.polling = polling
	r.quit = make(chan struct{})
	r.done = make(chan struct{})
	go r.run()
	r.Post(r.handlers.Started)
	return true
}

// Stop enqueues onStopped, signals the worker to exit after draining
// completions already scheduled, and joins the worker goroutine. After Stop
// returns, no handler registered before the call will be invoked again —
// spec §3 Reactor invariant.
func (r *Reactor) Stop() {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return
	}
	r.Post(r.handlers.Stopped)
	close(r.quit)
	<-r.done
	r.state.Store(int32(StateStopped))
}

// Restart is Stop followed by Start, per spec §4.1 and §8.
func (r *Reactor) Restart(polling bool) bool {
	r.Stop()
	return r.Start(polling)
}

// State reports the current lifecycle state.
func (r *Reactor) State() State { return State(r.state.Load()) }

// Shutdown stops the reactor and satisfies api.GracefulShutdown.
func (r *Reactor) Shutdown() error {
	r.Stop()
	return nil
}

var _ api.GracefulShutdown = (*Reactor)(nil)

// onWorker reports whether the calling goroutine is the reactor's worker.
func (r *Reactor) onWorker() bool {
	return r.workerID.Load() != 0 && r.workerID.Load() == goroutineToken()
}

// Post always schedules task to run on the worker, even if the caller is
// the worker itself — it will run after any task currently executing.
func (r *Reactor) Post(task Task) {
	if task == nil {
		return
	}
	r.mu.Lock()
	r.tasks.Add(task)
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Dispatch runs task synchronously if the caller is the worker goroutine,
// otherwise behaves like Post.
func (r *Reactor) Dispatch(task Task) {
	if task == nil {
		return
	}
	if r.onWorker() {
		task()
		return
	}
	r.Post(task)
}

// run is the worker loop: batched non-blocking drain with adaptive backoff
// when idle, mirroring the teacher's EventLoop.Run, generalized to carry
// thread-lifecycle hooks and a fatal-panic path that reports through
// onError and then re-raises the panic.
func (r *Reactor) run() {
	r.workerID.Store(goroutineToken())
	r.handlers.ThreadInitialize()
	defer func() {
		if rec := recover(); rec != nil {
			r.handlers.Error(api.ErrCodeInternal, api.CategoryFatal, "reactor: unrecovered panic in handler")
			panic(rec)
		}
	}()
	defer r.handlers.ThreadCleanup()
	defer close(r.done)
	defer r.workerID.Store(0)

	backoff := time.Microsecond
	const maxBackoff = time.Millisecond

	for {
		ran := r.drainOnce()
		if ran {
			backoff = time.Microsecond
			continue
		}

		select {
		case <-r.quit:
			r.drainOnce()
			return
		default:
		}

		if r.polling {
			r.handlers.Idle()
			continue
		}

		timer := time.NewTimer(backoff)
		select {
		case <-r.quit:
			timer.Stop()
			r.drainOnce()
			return
		case <-r.wake:
			timer.Stop()
			backoff = time.Microsecond
		case <-timer.C:
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			r.handlers.Idle()
		}
	}
}

// drainOnce runs every task currently queued and reports whether any ran.
func (r *Reactor) drainOnce() bool {
	ran := false
	for {
		r.mu.Lock()
		if r.tasks.Length() == 0 {
			r.mu.Unlock()
			return ran
		}
		v := r.tasks.Peek()
		r.tasks.Remove()
		r.mu.Unlock()

		if task, ok := v.(Task); ok && task != nil {
			task()
		}
		ran = true
	}
}
