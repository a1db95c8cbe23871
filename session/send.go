package session

import "github.com/momentics/netkit/api"

// Send appends data to the main buffer under the send mutex and dispatches
// a try-send task to the reactor. Safe to call from any goroutine.
func (s *Session) Send(data []byte) {
	if len(data) == 0 {
		return
	}
	s.sendMu.Lock()
	s.mainBuf = append(s.mainBuf, data...)
	s.sendMu.Unlock()
	s.reactor.Dispatch(s.trySend)
}

// trySend is idempotent and reactor-only: it returns immediately if a
// write is already in flight or the session isn't handshaked yet, swaps
// flush for main when flush has drained, and launches at most one async
// write.
func (s *Session) trySend() {
	if s.sending {
		return
	}
	if s.State() != api.StateHandshaked {
		return
	}

	if len(s.flushBuf) == s.flushOff {
		s.sendMu.Lock()
		if len(s.mainBuf) > 0 {
			s.flushBuf, s.mainBuf = s.mainBuf, s.flushBuf[:0]
			s.flushOff = 0
		}
		s.sendMu.Unlock()
	}

	if len(s.flushBuf) == s.flushOff {
		return
	}

	s.sending = true
	chunk := s.flushBuf[s.flushOff:]
	go func() {
		n, err := s.conn.Write(chunk)
		s.reactor.Dispatch(func() { s.onWriteComplete(n, err) })
	}()
}

func (s *Session) onWriteComplete(n int, err error) {
	s.sending = false

	switch s.State() {
	case api.StateDisconnecting, api.StateDisconnected:
		return
	}

	if n > 0 {
		s.bytesSent.Add(int64(n))
		s.flushOff += n
	}

	pending := len(s.flushBuf) - s.flushOff
	s.handlers.Sent(s.id, n, pending)

	if err != nil {
		s.handleIOError(err)
		return
	}

	if pending == 0 {
		s.flushBuf = s.flushBuf[:0]
		s.flushOff = 0
		s.handlers.Empty(s.id)
	}

	s.trySend()
}
