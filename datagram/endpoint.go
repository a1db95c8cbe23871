// Package datagram implements the UDP datagram endpoint (spec §4.5): bind
// or connect, send_to, join/leave multicast, disconnect/stop. There is no
// per-peer state — a single in-flight async read delivers
// (peer_endpoint, bytes) and re-arms, the same single-in-flight discipline
// the stream session uses for its receive chain, just without a
// session.Session wrapping it (a datagram socket has no handshake, no
// ordered byte stream, and no per-peer buffering).
package datagram

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/bufpool"
	"github.com/momentics/netkit/reactor"
)

// Endpoint is a single UDP socket. The zero value is not usable; construct
// with New.
type Endpoint struct {
	cfg      Config
	reactor  *reactor.Reactor
	handlers api.DatagramHandlers
	pool     api.BufferPool

	mu      sync.Mutex
	conn    net.PacketConn
	mcast   *multicastBinding // non-nil once joined to at least one group
	running atomic.Bool

	bytesSent     atomic.Int64
	bytesReceived atomic.Int64
}

var defaultPool = bufpool.NewManager()

// New constructs an Endpoint bound to no socket; call Start or Connect to
// begin receiving.
func New(r *reactor.Reactor, handlers api.DatagramHandlers, cfg Config) *Endpoint {
	cfg = cfg.normalized()
	pool := cfg.BufferPool
	if pool == nil {
		pool = defaultPool
	}
	return &Endpoint{cfg: cfg, reactor: r, handlers: handlers, pool: pool}
}

// Start binds addr (host:port, or ":port" for a wildcard bind) with
// SO_REUSEADDR/SO_REUSEPORT enabled, so multiple endpoints — or a later
// JoinMulticast on the same endpoint — can share the port.
func (e *Endpoint) Start(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		return api.ErrAlreadyRunning
	}

	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
			"bind "+addr).Wrap(err)
	}
	e.conn = pc
	e.running.Store(true)
	e.handlers.Started()
	e.armReceive()
	return nil
}

// Connect binds an ephemeral local socket and restricts Send to the given
// remote peer via net.Dial's connected-UDP semantics (so the kernel
// filters unrelated datagrams before they reach the read path).
func (e *Endpoint) Connect(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		return api.ErrAlreadyRunning
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
			"connect "+addr).Wrap(err)
	}
	e.conn = conn.(net.PacketConn)
	e.running.Store(true)
	e.handlers.Started()
	e.armReceive()
	return nil
}

// SendTo writes data to peer. peer is ignored (and may be the empty
// string) on a Connect-established endpoint, which always sends to the
// address it connected to.
func (e *Endpoint) SendTo(peer string, data []byte) error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil || !e.running.Load() {
		return api.ErrNotRunning
	}

	var (
		n   int
		err error
	)
	if udpConn, ok := conn.(*net.UDPConn); ok && peer != "" && udpConn.RemoteAddr() == nil {
		raddr, rerr := net.ResolveUDPAddr("udp", peer)
		if rerr != nil {
			return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
				"resolve "+peer).Wrap(rerr)
		}
		n, err = udpConn.WriteTo(data, raddr)
	} else if nc, ok := conn.(net.Conn); ok && nc.RemoteAddr() != nil {
		n, err = nc.Write(data)
	} else {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"SendTo requires a peer address on a bound (non-connected) endpoint")
	}
	if err != nil {
		e.handlers.Error(api.ErrCodeIOFailed, api.CategoryTransport, err.Error())
		return err
	}
	e.bytesSent.Add(int64(n))
	return nil
}

// armReceive launches the single in-flight async read and dispatches its
// completion back onto the reactor, mirroring session.armReceive.
func (e *Endpoint) armReceive() {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return
	}

	buf := e.pool.Get(e.cfg.ReadBufSize, e.cfg.NUMANode)
	go func() {
		n, peer, err := conn.ReadFrom(buf.Bytes())
		e.reactor.Dispatch(func() { e.onReadComplete(buf, n, peer, err) })
	}()
}

func (e *Endpoint) onReadComplete(buf api.Buffer, n int, peer net.Addr, err error) {
	if !e.running.Load() {
		buf.Release()
		return
	}
	if n > 0 {
		e.bytesReceived.Add(int64(n))
		e.handlers.Received(api.EndpointFromAddr(peer), buf.Slice(0, n).Copy())
	}
	buf.Release()
	if err != nil {
		if e.running.Load() {
			e.handlers.Error(api.ErrCodeIOFailed, api.CategoryTransport, err.Error())
		}
		return
	}
	e.armReceive()
}

// Disconnect is an alias for Stop; UDP has no connection to tear down
// beyond releasing the local socket.
func (e *Endpoint) Disconnect() error { return e.Stop() }

// Stop closes the socket. Any in-flight read observes the close and exits
// without re-arming.
func (e *Endpoint) Stop() error {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.mu.Unlock()

	if conn == nil {
		return api.ErrNotRunning
	}
	e.running.Store(false)
	err := conn.Close()
	e.handlers.Stopped()
	return err
}

// BytesSent reports cumulative bytes written.
func (e *Endpoint) BytesSent() int64 { return e.bytesSent.Load() }

// BytesReceived reports cumulative bytes read.
func (e *Endpoint) BytesReceived() int64 { return e.bytesReceived.Load() }

// IsRunning reports whether the endpoint currently holds an open socket.
func (e *Endpoint) IsRunning() bool { return e.running.Load() }

// LocalAddr returns the bound local address, or nil if the endpoint has
// no open socket.
func (e *Endpoint) LocalAddr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil {
		return nil
	}
	return e.conn.LocalAddr()
}

// Shutdown stops the endpoint and satisfies api.GracefulShutdown.
func (e *Endpoint) Shutdown() error { return e.Stop() }

var _ api.GracefulShutdown = (*Endpoint)(nil)
