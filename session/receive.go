package session

import "github.com/momentics/netkit/api"

// armReceive launches the single in-flight read: a blocking Read on its
// own goroutine (the Go stand-in for an async-read suspension point),
// with the result handed back to the reactor so onReceived never runs
// concurrently with any other handler on this session.
func (s *Session) armReceive() {
	switch s.State() {
	case api.StateDisconnecting, api.StateDisconnected:
		return
	}
	buf := s.recvBuf
	go func() {
		n, err := s.conn.Read(buf.Bytes())
		s.reactor.Dispatch(func() { s.onReadComplete(buf, n, err) })
	}()
}

func (s *Session) onReadComplete(buf api.Buffer, n int, err error) {
	switch s.State() {
	case api.StateDisconnecting, api.StateDisconnected:
		return
	}

	if n > 0 {
		s.bytesReceived.Add(int64(n))
		s.handlers.Received(s.id, buf.Bytes()[:n])
		if n == len(buf.Bytes()) {
			s.growRecvBuffer()
		}
	}

	if err != nil {
		s.handleIOError(err)
		return
	}

	s.armReceive()
}

// growRecvBuffer doubles the receive buffer when the previous read filled
// it completely, per the spec's receive-chain buffer-doubling invariant.
func (s *Session) growRecvBuffer() {
	old := s.recvBuf
	next := old.Capacity() * 2
	s.recvBuf = s.pool.Get(next, s.numaNode)
	old.Release()
}
