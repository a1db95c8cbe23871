package datagram

import "github.com/momentics/netkit/api"

// Config configures an Endpoint.
type Config struct {
	BufferPool  api.BufferPool
	NUMANode    int
	ReadBufSize int

	// MulticastTTL sets the outgoing TTL (hop limit for IPv6) applied to
	// every group this endpoint joins; 0 leaves the kernel default (1)
	// in place, matching CppServer's UdpClient::SetupMulticast default.
	MulticastTTL int
}

func (c Config) normalized() Config {
	if c.ReadBufSize <= 0 {
		c.ReadBufSize = 64 * 1024 // largest practical UDP datagram
	}
	if c.NUMANode < 0 {
		c.NUMANode = -1
	}
	return c
}
