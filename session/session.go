// Package session implements the per-connection state machine shared by
// stream servers and stream clients: connecting/handshaking/handshaked/
// disconnecting/disconnected, a single-in-flight receive chain, and a
// double-buffered (main/flush) send chain, all driven off a reactor.Reactor
// so user handlers never run concurrently with each other on one session.
package session

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/bufpool"
	"github.com/momentics/netkit/reactor"
)

// Role distinguishes a server-accepted session from a client-initiated one;
// only the server role removes itself from a registry on disconnect.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

const defaultRecvSize = 4096

// Session is a single connection's state machine. The zero value is not
// usable; construct with New.
type Session struct {
	id       api.Identity
	role     Role
	conn     net.Conn
	reactor  *reactor.Reactor
	handlers api.Handlers
	pool     api.BufferPool
	numaNode int

	state atomic.Int32

	recvBuf  api.Buffer
	recvSize int

	sendMu     sync.Mutex
	mainBuf    []byte
	flushBuf   []byte
	flushOff   int
	sending    bool // reactor-only, per spec's "sending is reactor-only" flag

	bytesSent     atomic.Int64
	bytesReceived atomic.Int64

	onRemove  func(api.Identity)
	closeOnce sync.Once
	done      chan struct{}

	ctxOnce sync.Once
	ctx     *api.MemContext
}

// Option configures a Session at construction.
type Option func(*Session)

// WithBufferPool overrides the receive-buffer pool (default: a
// process-wide bufpool.Manager shared across sessions that don't specify
// one).
func WithBufferPool(p api.BufferPool) Option {
	return func(s *Session) { s.pool = p }
}

// WithNUMANode pins the session's receive buffer allocations to a NUMA node.
func WithNUMANode(n int) Option {
	return func(s *Session) { s.numaNode = n }
}

// WithInitialRecvSize overrides the initial receive buffer size (default
// 4096 bytes, doubling thereafter per spec invariant).
func WithInitialRecvSize(n int) Option {
	return func(s *Session) { s.recvSize = n }
}

// WithRole sets whether the session is server- or client-owned (default
// RoleServer); client sessions never call a removal hook on disconnect.
func WithRole(r Role) Option {
	return func(s *Session) { s.role = r }
}

// WithRemovalHook registers the callback a server uses to evict the
// session from its registry once disconnected.
func WithRemovalHook(fn func(api.Identity)) Option {
	return func(s *Session) { s.onRemove = fn }
}

var defaultPool = bufpool.NewManager()

// New constructs a Session over an already-established net.Conn (accepted
// by a server or returned by a successful client dial). The session starts
// in StateConnecting; call Start to begin the handshake/receive pipeline.
func New(id api.Identity, conn net.Conn, r *reactor.Reactor, handlers api.Handlers, opts ...Option) *Session {
	s := &Session{
		id:       id,
		conn:     conn,
		reactor:  r,
		handlers: handlers,
		numaNode: -1,
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.pool == nil {
		s.pool = defaultPool
	}
	if s.recvSize <= 0 {
		s.recvSize = defaultRecvSize
	}
	s.recvBuf = s.pool.Get(s.recvSize, s.numaNode)
	s.state.Store(int32(api.StateConnecting))
	return s
}

// ID returns the session's connection identity.
func (s *Session) ID() api.Identity { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() api.SessionState { return api.SessionState(s.state.Load()) }

// RemoteAddr returns the peer address of the underlying connection.
func (s *Session) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// BytesSent reports the cumulative bytes written to the wire.
func (s *Session) BytesSent() int64 { return s.bytesSent.Load() }

// BytesReceived reports the cumulative bytes read from the wire.
func (s *Session) BytesReceived() int64 { return s.bytesReceived.Load() }

// Context returns this session's application-level key-value store,
// constructing it lazily on first use since most sessions never need one.
func (s *Session) Context() api.Context {
	s.ctxOnce.Do(func() { s.ctx = api.NewMemContext() })
	return s.ctx
}

// Shutdown tears the session down and satisfies api.GracefulShutdown so an
// owning process can stop a session uniformly alongside reactors, servers
// and clients.
func (s *Session) Shutdown() error {
	s.Disconnect(true)
	return nil
}

// Done returns a channel closed once the session has fully transitioned
// to StateDisconnected, letting callers await teardown without polling
// (spec §9 design note: condition variables/channels over busy-wait).
func (s *Session) Done() <-chan struct{} { return s.done }

var _ api.GracefulShutdown = (*Session)(nil)
