// Package netclient implements the stream client (spec §4.4): a single
// session not owned by a server, exposing connect/disconnect/reconnect/
// send with the same pimpl-reset-in-place behavior as the original —
// byte counters survive a reconnect even though the underlying session is
// rebuilt from scratch.
package netclient

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
)

// Client is a single stream connection. The zero value is not usable;
// construct with New.
type Client struct {
	cfg          Config
	userHandlers api.Handlers
	handlers     api.Handlers
	dialer       net.Dialer
	reactor      *reactor.Reactor

	mu   sync.Mutex
	sess *session.Session
	id   api.Identity

	preservedSent     atomic.Int64
	preservedReceived atomic.Int64
	connected         atomic.Bool

	reloadMu sync.Mutex
	reloadFn []func()

	probeMu sync.Mutex
	probes  map[string]func() any
}

// New constructs a Client with its own single reactor; Connect must be
// called before Send has any effect.
func New(cfg Config, handlers api.Handlers) *Client {
	cfg = cfg.normalized()
	c := &Client{cfg: cfg, userHandlers: handlers}
	c.reactor = reactor.New(reactor.WithHandlers(handlers))
	c.handlers = c.wrapHandlers(handlers)
	c.reactor.Start(cfg.Polling)
	return c
}

// wrapHandlers intercepts OnDisconnected to fold the closing session's
// byte counters into the client's preserved totals before forwarding to
// the caller's own handler.
func (c *Client) wrapHandlers(h api.Handlers) api.Handlers {
	userDisconnected := h.OnDisconnected
	h.OnDisconnected = func(id api.Identity) {
		c.mu.Lock()
		if c.sess != nil {
			c.preservedSent.Add(c.sess.BytesSent())
			c.preservedReceived.Add(c.sess.BytesReceived())
			c.sess = nil
		}
		c.connected.Store(false)
		c.mu.Unlock()
		if userDisconnected != nil {
			userDisconnected(id)
		}
	}
	return h
}

// Connect dials cfg.Addr and starts a fresh session. Returns
// api.ErrAlreadyRunning if a session is already connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.sess != nil && c.sess.State() != api.StateDisconnected {
		c.mu.Unlock()
		return api.ErrAlreadyRunning
	}
	c.mu.Unlock()

	dialCtx := ctx
	if c.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.DialTimeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(dialCtx, "tcp", c.cfg.Addr)
	if err != nil {
		return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
			"dial "+c.cfg.Addr).Wrap(err)
	}

	var wrapped net.Conn = conn
	if c.cfg.TLSConfig != nil {
		wrapped = tls.Client(conn, c.cfg.TLSConfig)
	}

	id, err := api.NewIdentity()
	if err != nil {
		_ = conn.Close()
		return err
	}

	sess := session.New(id, wrapped, c.reactor, c.handlers,
		session.WithBufferPool(c.cfg.BufferPool),
		session.WithNUMANode(c.cfg.NUMANode),
		session.WithRole(session.RoleClient))

	c.mu.Lock()
	c.sess = sess
	c.id = id
	c.mu.Unlock()

	c.connected.Store(true)
	c.handlers.Connected(id)
	sess.Start(ctx)
	return nil
}

// Disconnect tears down the current session, if any.
func (c *Client) Disconnect() {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess != nil {
		sess.Disconnect(false)
	}
}

// Reconnect disconnects (waiting for teardown to finish) and connects
// again, per spec §4.4.
func (c *Client) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	if sess != nil {
		sess.Disconnect(false)
		select {
		case <-sess.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Connect(ctx)
}

// Send queues data on the current session. A no-op if there is no
// connected session.
func (c *Client) Send(data []byte) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess != nil {
		sess.Send(data)
	}
}

// Close stops the client's reactor; the client cannot be reused
// afterwards.
func (c *Client) Close() error {
	c.Disconnect()
	c.reactor.Stop()
	return nil
}

// Shutdown is an alias for Close, satisfying api.GracefulShutdown.
func (c *Client) Shutdown() error { return c.Close() }

var (
	_ api.GracefulShutdown = (*Client)(nil)
	_ api.Control          = (*Client)(nil)
)

// ID returns the identity of the current (or most recent) session.
func (c *Client) ID() api.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// IsConnected reports whether a session is currently connected.
func (c *Client) IsConnected() bool { return c.connected.Load() }

// BytesSent reports bytes sent, summed across reconnects.
func (c *Client) BytesSent() int64 {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	total := c.preservedSent.Load()
	if sess != nil {
		total += sess.BytesSent()
	}
	return total
}

// BytesReceived reports bytes received, summed across reconnects.
func (c *Client) BytesReceived() int64 {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	total := c.preservedReceived.Load()
	if sess != nil {
		total += sess.BytesReceived()
	}
	return total
}
