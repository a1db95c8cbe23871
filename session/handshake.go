package session

import (
	"context"

	"github.com/momentics/netkit/api"
)

// tlsHandshaker is satisfied by *tls.Conn without importing crypto/tls
// here, keeping the core session decoupled from the TLS overlay package
// (spec §4.6): any connection offering an async handshake gets one, a
// plain net.Conn skips straight to handshaked.
type tlsHandshaker interface {
	HandshakeContext(ctx context.Context) error
}

// Start begins the handshake phase (if the underlying connection supports
// one) or transitions directly to handshaked for a raw byte stream, then
// arms the receive chain. Must be called exactly once, after onConnected
// has already fired for this session.
func (s *Session) Start(ctx context.Context) {
	if hs, ok := s.conn.(tlsHandshaker); ok {
		s.state.Store(int32(api.StateHandshaking))
		go func() {
			err := hs.HandshakeContext(ctx)
			s.reactor.Dispatch(func() { s.onHandshakeComplete(err) })
		}()
		return
	}
	s.state.Store(int32(api.StateHandshaked))
	s.handlers.Handshaked(s.id)
	s.armReceive()
	s.trySend() // in case Send was called while still connecting
}

func (s *Session) onHandshakeComplete(err error) {
	switch s.State() {
	case api.StateDisconnecting, api.StateDisconnected:
		return
	}
	if err != nil {
		if !isSuppressedTeardown(err) {
			s.handlers.Error(api.ErrCodeHandshakeFailed, api.CategoryProtocol, err.Error())
		}
		s.teardown()
		return
	}
	s.state.Store(int32(api.StateHandshaked))
	s.handlers.Handshaked(s.id)
	s.handlers.Empty(s.id) // prime the send path, per spec §4.6
	s.armReceive()
	s.trySend() // in case Send was called while still handshaking
}
