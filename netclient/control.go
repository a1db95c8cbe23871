package netclient

import "github.com/momentics/netkit/api"

// GetConfig returns a snapshot of the client's current configuration.
func (c *Client) GetConfig() map[string]any {
	c.mu.Lock()
	cfg := c.cfg
	c.mu.Unlock()
	return map[string]any{
		"addr":         cfg.Addr,
		"dial_timeout": cfg.DialTimeout,
		"polling":      cfg.Polling,
		"numa_node":    cfg.NUMANode,
	}
}

// SetConfig merges the "addr" key of cfg into the client's configuration;
// other keys are ignored. Only valid while disconnected, since Addr takes
// effect on the next Connect.
func (c *Client) SetConfig(cfg map[string]any) error {
	if c.IsConnected() {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"cannot reconfigure a connected client")
	}

	c.mu.Lock()
	if v, ok := cfg["addr"].(string); ok && v != "" {
		c.cfg.Addr = v
	}
	c.mu.Unlock()

	c.reloadMu.Lock()
	fns := append([]func(){}, c.reloadFn...)
	c.reloadMu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

// Stats returns the client's cumulative byte counters, connection state,
// and any registered debug probes.
func (c *Client) Stats() map[string]any {
	out := map[string]any{
		"connected":      c.IsConnected(),
		"bytes_sent":     c.BytesSent(),
		"bytes_received": c.BytesReceived(),
	}

	c.probeMu.Lock()
	for name, fn := range c.probes {
		out[name] = fn()
	}
	c.probeMu.Unlock()
	return out
}

// OnReload registers fn to run whenever SetConfig succeeds.
func (c *Client) OnReload(fn func()) {
	if fn == nil {
		return
	}
	c.reloadMu.Lock()
	c.reloadFn = append(c.reloadFn, fn)
	c.reloadMu.Unlock()
}

// RegisterDebugProbe registers fn under name; its result is merged into
// every subsequent Stats() call.
func (c *Client) RegisterDebugProbe(name string, fn func() any) {
	if fn == nil {
		return
	}
	c.probeMu.Lock()
	if c.probes == nil {
		c.probes = make(map[string]func() any)
	}
	c.probes[name] = fn
	c.probeMu.Unlock()
}
