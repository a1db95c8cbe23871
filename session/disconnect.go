package session

import "github.com/momentics/netkit/api"

// Disconnect schedules the teardown closure on the reactor. Pass dispatch
// true to run synchronously when already on the reactor's worker goroutine
// (Dispatch), false to always enqueue (Post) — matching the spec's
// disconnect(dispatch?) signature.
func (s *Session) Disconnect(dispatch bool) {
	if dispatch {
		s.reactor.Dispatch(s.teardown)
	} else {
		s.reactor.Post(s.teardown)
	}
}

// teardown is the disconnect sequence: check state, close the socket,
// clear both send buffers under the send mutex, flip to disconnected,
// fire onDisconnected, then (server-side) evict from the registry. Wrapped
// in sync.Once so concurrent disconnect triggers (an IO error racing a
// caller's explicit Disconnect) only run it once.
func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		if s.State() == api.StateDisconnected {
			return
		}
		s.state.Store(int32(api.StateDisconnecting))
		_ = s.conn.Close()

		s.sendMu.Lock()
		s.mainBuf = nil
		s.flushBuf = nil
		s.flushOff = 0
		s.sendMu.Unlock()

		s.state.Store(int32(api.StateDisconnected))
		s.handlers.Disconnected(s.id)

		if s.role == RoleServer && s.onRemove != nil {
			s.onRemove(s.id)
		}
		close(s.done)
	})
}
