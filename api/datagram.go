package api

// DatagramHandlers is the capability object for the datagram endpoint
// (§4.5). It mirrors Handlers' fixed-hook shape but OnReceived carries the
// originating peer Endpoint instead of a session Identity: a datagram
// endpoint has no per-peer session state, so there is nothing else to key
// delivery on.
type DatagramHandlers struct {
	OnStarted func()
	OnStopped func()

	OnReceived func(peer Endpoint, data []byte)
	OnSent     func(peer Endpoint, sent int)
	OnIdle     func()

	OnError func(code ErrorCode, category ErrorCategory, message string)
}

func (h *DatagramHandlers) Started() {
	if h != nil && h.OnStarted != nil {
		h.OnStarted()
	}
}

func (h *DatagramHandlers) Stopped() {
	if h != nil && h.OnStopped != nil {
		h.OnStopped()
	}
}

func (h *DatagramHandlers) Received(peer Endpoint, data []byte) {
	if h != nil && h.OnReceived != nil {
		h.OnReceived(peer, data)
	}
}

func (h *DatagramHandlers) Sent(peer Endpoint, sent int) {
	if h != nil && h.OnSent != nil {
		h.OnSent(peer, sent)
	}
}

func (h *DatagramHandlers) Idle() {
	if h != nil && h.OnIdle != nil {
		h.OnIdle()
	}
}

func (h *DatagramHandlers) Error(code ErrorCode, category ErrorCategory, message string) {
	if h != nil && h.OnError != nil {
		h.OnError(code, category, message)
	}
}
