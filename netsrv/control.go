package netsrv

import (
	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
)

// GetConfig returns a snapshot of the server's current configuration.
func (s *Server) GetConfig() map[string]any {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	return map[string]any{
		"listen_addr":   cfg.ListenAddr,
		"reactor_count": cfg.ReactorCount,
		"polling":       cfg.Polling,
		"numa_node":     cfg.NUMANode,
	}
}

// SetConfig merges cfg into the server's configuration. Only ListenAddr,
// ReactorCount and Polling are mutable, and only while the server is not
// running: all three take effect at the next Start, and a new
// reactor_count rebuilds the reactor engine.
func (s *Server) SetConfig(cfg map[string]any) error {
	if s.running.Load() {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"cannot reconfigure a running server")
	}

	s.mu.Lock()
	if v, ok := cfg["listen_addr"].(string); ok && v != "" {
		s.cfg.ListenAddr = v
	}
	if v, ok := cfg["reactor_count"].(int); ok && v > 0 {
		s.cfg.ReactorCount = v
		s.engine = reactor.NewEngine(v, s.cfg.Polling, s.handlers)
	}
	if v, ok := cfg["polling"].(bool); ok {
		s.cfg.Polling = v
	}
	s.mu.Unlock()

	s.reloadMu.Lock()
	fns := append([]func(){}, s.reloadFn...)
	s.reloadMu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

// Stats returns aggregated runtime metrics: connection count and total
// bytes moved across every currently registered session, plus whatever
// debug probes have been registered.
func (s *Server) Stats() map[string]any {
	var sent, received int64
	s.registry.Range(func(_, v any) bool {
		sess := v.(*session.Session)
		sent += sess.BytesSent()
		received += sess.BytesReceived()
		return true
	})

	out := map[string]any{
		"open_connections": s.OpenConnections(),
		"running":          s.IsRunning(),
		"gone":             s.IsGone(),
		"bytes_sent":       sent,
		"bytes_received":   received,
	}

	s.probeMu.Lock()
	for name, fn := range s.probes {
		out[name] = fn()
	}
	s.probeMu.Unlock()
	return out
}

// OnReload registers fn to run whenever SetConfig succeeds.
func (s *Server) OnReload(fn func()) {
	if fn == nil {
		return
	}
	s.reloadMu.Lock()
	s.reloadFn = append(s.reloadFn, fn)
	s.reloadMu.Unlock()
}

// RegisterDebugProbe registers fn under name; its result is merged into
// every subsequent Stats() call.
func (s *Server) RegisterDebugProbe(name string, fn func() any) {
	if fn == nil {
		return
	}
	s.probeMu.Lock()
	if s.probes == nil {
		s.probes = make(map[string]func() any)
	}
	s.probes[name] = fn
	s.probeMu.Unlock()
}
