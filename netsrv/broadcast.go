package netsrv

import (
	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/session"
)

// Broadcast appends data to the server's multicast buffer under its mutex,
// then dispatches a drain task to a reactor. Per the spec §4.3 semantics
// (and the Open Question resolution in DESIGN.md): the mutex is released
// before the per-session sends run, so the registry is iterated against a
// snapshot of the accumulated bytes rather than holding the lock across
// every session's send.
func (s *Server) Broadcast(data []byte) error {
	if !s.IsRunning() {
		return api.ErrNotRunning
	}
	if len(data) == 0 {
		return nil
	}

	s.broadcastMu.Lock()
	s.broadcastBuf = append(s.broadcastBuf, data...)
	s.broadcastMu.Unlock()

	s.engine.Next().Dispatch(s.drainBroadcast)
	return nil
}

// SendTo writes data to exactly one registered session, used by
// correlation-based message-passing kinds (REP/RESPONDENT) that must
// route a reply to the specific peer that sent the matching request
// rather than broadcasting it to the whole registry.
func (s *Server) SendTo(id api.Identity, data []byte) error {
	v, ok := s.registry.Load(id)
	if !ok {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"no session "+id.String())
	}
	v.(*session.Session).Send(data)
	return nil
}

func (s *Server) drainBroadcast() {
	s.broadcastMu.Lock()
	payload := s.broadcastBuf
	s.broadcastBuf = nil
	s.broadcastMu.Unlock()

	if len(payload) == 0 {
		return
	}
	s.registry.Range(func(_, v any) bool {
		v.(*session.Session).Send(payload)
		return true
	})
}
