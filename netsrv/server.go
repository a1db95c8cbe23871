// Package netsrv implements the stream server (spec §4.3): start/stop/
// restart, a registry of sessions keyed by connection identity, and the
// broadcast accumulator primitive. API naming (IsRunning/IsGone/
// OpenConnections) follows nabbar-golib's socket/server/tcp test suite,
// the pack's secondary grounding source for this exact domain.
package netsrv

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
)

// Server is a stream server accepting connections on a single listener
// and sharding sessions round-robin across a reactor.Engine.
type Server struct {
	cfg      Config
	handlers api.Handlers
	engine   *reactor.Engine

	mu       sync.Mutex
	listener net.Listener
	stopped  chan struct{}
	ready    chan struct{}

	registry  sync.Map // api.Identity -> *session.Session
	openConns atomic.Int64

	broadcastMu  sync.Mutex
	broadcastBuf []byte

	running atomic.Bool
	gone    atomic.Bool

	reloadMu sync.Mutex
	reloadFn []func()

	probeMu sync.Mutex
	probes  map[string]func() any
}

// New builds a Server. The listener is not bound until Start is called.
func New(cfg Config, handlers api.Handlers) *Server {
	cfg = cfg.normalized()
	return &Server{
		cfg:      cfg,
		handlers: handlers,
		engine:   reactor.NewEngine(cfg.ReactorCount, cfg.Polling, handlers),
		ready:    make(chan struct{}),
	}
}

// Start binds the listener, starts the reactor engine, and runs the accept
// loop until ctx is cancelled or Stop is called. It is the blocking
// "serve" call; run it in its own goroutine to call Stop from elsewhere.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}

	s.mu.Lock()
	ready := s.ready
	select {
	case <-ready:
		// closed by a previous run: arm a fresh channel for this one
		ready = make(chan struct{})
		s.ready = ready
	default:
	}
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.running.Store(false)
		return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
			"listen "+s.cfg.ListenAddr).Wrap(err)
	}

	s.mu.Lock()
	s.listener = ln
	s.stopped = make(chan struct{})
	s.mu.Unlock()
	s.gone.Store(false)
	close(ready)

	s.engine.Start(s.cfg.Polling)
	s.handlers.Started()

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		s.acceptLoop(ln)
	}()

	select {
	case <-ctx.Done():
		_ = s.closeListener()
		<-acceptDone
	case <-acceptDone:
	}

	s.engine.Stop()
	s.handlers.Stopped()
	s.running.Store(false)
	s.gone.Store(true)

	s.mu.Lock()
	close(s.stopped)
	s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// acceptLoop accepts connections until the listener is closed. Bind
// failures are fatal (returned by Start before the loop ever begins);
// per-accept errors are reported to onError and the loop continues, per
// spec §4.3 / §9.
func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.handlers.Error(api.ErrCodeIOFailed, api.CategoryTransport, err.Error())
			continue
		}
		s.handleAccept(conn)
	}
}

func (s *Server) handleAccept(conn net.Conn) {
	id, err := api.NewIdentity()
	if err != nil {
		_ = conn.Close()
		s.handlers.Error(api.ErrCodeInternal, api.CategoryFatal, "identity generation failed")
		return
	}

	var wrapped net.Conn = conn
	if s.cfg.TLSConfig != nil {
		wrapped = tls.Server(conn, s.cfg.TLSConfig)
	}

	r := s.engine.Next()
	sess := session.New(id, wrapped, r, s.handlers,
		session.WithBufferPool(s.cfg.BufferPool),
		session.WithNUMANode(s.cfg.NUMANode),
		session.WithRole(session.RoleServer),
		session.WithRemovalHook(s.remove))

	s.registry.Store(id, sess)
	s.openConns.Add(1)
	s.handlers.Connected(id)
	sess.Start(context.Background())
}

func (s *Server) remove(id api.Identity) {
	if _, ok := s.registry.LoadAndDelete(id); ok {
		s.openConns.Add(-1)
	}
}

// Stop closes the listener, which unwinds any in-progress Start call; it
// does not itself wait for teardown to finish.
func (s *Server) Stop() error {
	return s.closeListener()
}

// Restart stops the server, waits for the in-flight Start call (if any) to
// fully unwind, then starts again — equivalent to spec §4.3's stop +
// busy-wait + start, implemented with a channel instead of polling per the
// design note in spec §9.
func (s *Server) Restart(ctx context.Context) error {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()

	_ = s.Stop()
	if stopped != nil {
		<-stopped
	}
	return s.Start(ctx)
}

func (s *Server) closeListener() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

// Ready returns a channel closed once the listener is bound and the
// accept loop is about to start — callers that launch Start in a
// goroutine can await this instead of polling IsRunning.
func (s *Server) Ready() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// IsRunning reports whether the accept loop is currently active.
func (s *Server) IsRunning() bool { return s.running.Load() }

// IsGone reports whether the server has completed a shutdown.
func (s *Server) IsGone() bool { return s.gone.Load() }

// OpenConnections reports the number of sessions currently registered.
func (s *Server) OpenConnections() int64 { return s.openConns.Load() }

// DisconnectAll dispatches a disconnect to every registered session.
func (s *Server) DisconnectAll() {
	s.registry.Range(func(_, v any) bool {
		v.(*session.Session).Disconnect(false)
		return true
	})
}

// Shutdown stops the server and satisfies api.GracefulShutdown.
func (s *Server) Shutdown() error { return s.Stop() }

var (
	_ api.GracefulShutdown = (*Server)(nil)
	_ api.Control          = (*Server)(nil)
)
