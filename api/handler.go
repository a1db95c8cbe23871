package api

// Handlers is the capability object every component (reactor, session,
// server, client, datagram endpoint, message-passing endpoint) is
// configured with in place of the virtual-method "inherit and override"
// pattern: a fixed set of named hooks, each defaulting to a no-op when left
// nil. Components invoke hooks by name directly; there is no dispatch
// table, so a caller only pays for the hooks it sets.
type Handlers struct {
	OnStarted func()
	OnStopped func()

	OnConnected    func(id Identity)
	OnHandshaked   func(id Identity)
	OnDisconnected func(id Identity)

	OnReceived func(id Identity, data []byte)
	OnSent     func(id Identity, sent int, pending int)
	OnEmpty    func(id Identity)
	OnIdle     func()

	OnThreadInitialize func()
	OnThreadCleanup    func()

	OnError func(code ErrorCode, category ErrorCategory, message string)
}

// Started invokes OnStarted if set. Nil-receiver safe.
func (h *Handlers) Started() {
	if h != nil && h.OnStarted != nil {
		h.OnStarted()
	}
}

// Stopped invokes OnStopped if set.
func (h *Handlers) Stopped() {
	if h != nil && h.OnStopped != nil {
		h.OnStopped()
	}
}

// Connected invokes OnConnected if set.
func (h *Handlers) Connected(id Identity) {
	if h != nil && h.OnConnected != nil {
		h.OnConnected(id)
	}
}

// Handshaked invokes OnHandshaked if set.
func (h *Handlers) Handshaked(id Identity) {
	if h != nil && h.OnHandshaked != nil {
		h.OnHandshaked(id)
	}
}

// Disconnected invokes OnDisconnected if set.
func (h *Handlers) Disconnected(id Identity) {
	if h != nil && h.OnDisconnected != nil {
		h.OnDisconnected(id)
	}
}

// Received invokes OnReceived if set.
func (h *Handlers) Received(id Identity, data []byte) {
	if h != nil && h.OnReceived != nil {
		h.OnReceived(id, data)
	}
}

// Sent invokes OnSent if set.
func (h *Handlers) Sent(id Identity, sent, pending int) {
	if h != nil && h.OnSent != nil {
		h.OnSent(id, sent, pending)
	}
}

// Empty invokes OnEmpty if set.
func (h *Handlers) Empty(id Identity) {
	if h != nil && h.OnEmpty != nil {
		h.OnEmpty(id)
	}
}

// Idle invokes OnIdle if set.
func (h *Handlers) Idle() {
	if h != nil && h.OnIdle != nil {
		h.OnIdle()
	}
}

// ThreadInitialize invokes OnThreadInitialize if set.
func (h *Handlers) ThreadInitialize() {
	if h != nil && h.OnThreadInitialize != nil {
		h.OnThreadInitialize()
	}
}

// ThreadCleanup invokes OnThreadCleanup if set.
func (h *Handlers) ThreadCleanup() {
	if h != nil && h.OnThreadCleanup != nil {
		h.OnThreadCleanup()
	}
}

// Error invokes OnError if set.
func (h *Handlers) Error(code ErrorCode, category ErrorCategory, message string) {
	if h != nil && h.OnError != nil {
		h.OnError(code, category, message)
	}
}
