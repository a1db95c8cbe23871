package api

import "time"

// SessionState enumerates the stream session lifecycle defined in §4.2:
//
//	connecting -> handshaking -> handshaked -> disconnecting -> disconnected
//
// A failed handshake leaves handshaking through the same teardown,
// disconnecting -> disconnected.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateHandshaking
	StateHandshaked
	StateDisconnecting
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateHandshaked:
		return "handshaked"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is disconnected, from which no
// further transition is possible.
func (s SessionState) Terminal() bool { return s == StateDisconnected }

// APIMetrics provides a standard layout for service health/statistics
// reporting, exposed through Control.Stats.
type APIMetrics struct {
	NumSessions     int
	BytesSent       uint64
	BytesReceived   uint64
	MessagesSent    uint64
	MessagesReceived uint64
	StartedAt       time.Time
}

// ServiceInfo exposes descriptive build- and runtime info for external tools.
type ServiceInfo struct {
	Name      string
	Version   string
	StartedAt time.Time
}
