package msgsock

import (
	"time"

	"github.com/momentics/netkit/api"
)

// Send transmits data. PUSH/PUB/PAIR/BUS broadcast to every connected peer
// (or the single connected peer, in Connect mode); REQ uses Send the same
// way but additionally tracks alternation state. SURVEYOR rounds go
// through Survey; Send on a SURVEYOR just broadcasts.
// PULL and SUB sockets reject Send per their capability gating.
func (s *Socket) Send(data []byte) error {
	if !s.kind.CanSend() {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			s.kind.String()+" socket cannot send")
	}
	if s.kind == Req && !s.awaitingResponse.CompareAndSwap(false, true) {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryProtocol,
			"REQ socket already has a request outstanding")
	}
	frame := encodeFrame(s.kind, data)
	s.messagesSent.Add(1)
	return s.broadcastFrame(frame)
}

// Reply sends data back to a specific peer, used by REP/RESPONDENT to
// route a response to the peer that issued the matching request rather
// than to every connected peer.
func (s *Socket) Reply(peer api.Identity, data []byte) error {
	if s.kind != Rep && s.kind != Respondent {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"Reply is only valid on REP/RESPONDENT sockets")
	}
	frame := encodeFrame(s.kind, data)
	s.messagesSent.Add(1)

	s.mu.Lock()
	srv, cli := s.srv, s.cli
	s.mu.Unlock()
	if srv != nil {
		return srv.SendTo(peer, frame)
	}
	if cli != nil {
		cli.Send(frame)
		return nil
	}
	return api.ErrNotRunning
}

func (s *Socket) broadcastFrame(frame []byte) error {
	s.mu.Lock()
	srv, cli := s.srv, s.cli
	s.mu.Unlock()
	if srv != nil {
		return srv.Broadcast(frame)
	}
	if cli != nil {
		cli.Send(frame)
		return nil
	}
	return api.ErrNotRunning
}

// Survey sends data to every connected respondent and collects responses
// that arrive before deadline elapses; responses arriving after the
// deadline are silently dropped rather than erroring, per spec §4.7 and
// original_source's nanomsg_survey_client.cpp semantics. Only valid on a
// SURVEYOR socket.
func (s *Socket) Survey(data []byte, deadline time.Duration) ([][]byte, error) {
	if s.kind != Surveyor {
		return nil, api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"Survey is only valid on a SURVEYOR socket")
	}

	s.surveyMu.Lock()
	s.surveyRound++
	ch := make(chan survey, 64)
	s.surveyChan = ch
	s.surveyLive.Store(true)
	s.surveyMu.Unlock()

	if err := s.broadcastFrame(encodeFrame(s.kind, data)); err != nil {
		s.surveyLive.Store(false)
		return nil, err
	}

	var responses [][]byte
	timer := time.NewTimer(deadline)
	defer timer.Stop()
collect:
	for {
		select {
		case r := <-ch:
			responses = append(responses, r.data)
		case <-timer.C:
			break collect
		}
	}
	s.surveyLive.Store(false)
	return responses, nil
}

func (s *Socket) deliverSurveyResponse(peer api.Identity, payload []byte) {
	if !s.surveyLive.Load() {
		return // deadline already passed: drop silently per spec §4.7
	}
	s.surveyMu.Lock()
	ch := s.surveyChan
	s.surveyMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- survey{peer: peer, data: payload}:
	default:
		// channel full: drop rather than block the reactor goroutine
	}
}
