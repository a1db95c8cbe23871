package msgsock

import "github.com/momentics/netkit/api"

// GetConfig returns a snapshot of the socket's current configuration.
func (s *Socket) GetConfig() map[string]any {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	return map[string]any{
		"kind":      s.kind.String(),
		"numa_node": cfg.NUMANode,
	}
}

// SetConfig merges cfg into the socket's configuration. Only valid before
// Bind/Connect has established a transport.
func (s *Socket) SetConfig(cfg map[string]any) error {
	s.mu.Lock()
	if s.srv != nil || s.cli != nil {
		s.mu.Unlock()
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"cannot reconfigure a bound or connected socket")
	}
	if v, ok := cfg["numa_node"].(int); ok {
		s.cfg.NUMANode = v
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

// Stats returns cumulative message counters and any registered debug
// probes.
func (s *Socket) Stats() map[string]any {
	out := map[string]any{
		"messages_sent":     s.MessagesSent(),
		"messages_received": s.MessagesReceived(),
	}

	s.probeMu.Lock()
	for name, fn := range s.probes {
		out[name] = fn()
	}
	s.probeMu.Unlock()
	return out
}

// OnReload registers fn to run whenever SetConfig succeeds.
func (s *Socket) OnReload(fn func()) {
	if fn == nil {
		return
	}
	s.reloadMu.Lock()
	s.reloadFn = append(s.reloadFn, fn)
	s.reloadMu.Unlock()
}

// RegisterDebugProbe registers fn under name; its result is merged into
// every subsequent Stats() call.
func (s *Socket) RegisterDebugProbe(name string, fn func() any) {
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
