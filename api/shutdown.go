package api

// GracefulShutdown is implemented by every long-running component (reactor,
// server, client, datagram endpoint, message-passing endpoint) so an
// owning process can tear the whole engine down uniformly.
type GracefulShutdown interface {
	Shutdown() error
}
