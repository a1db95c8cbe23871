package netsrv

import (
	"crypto/tls"

	"github.com/momentics/netkit/api"
)

// Config configures a Server. ListenAddr is a host:port pair; TLSConfig
// nil means raw (non-TLS) sessions.
type Config struct {
	ListenAddr   string
	ReactorCount int
	Polling      bool
	NUMANode     int
	BufferPool   api.BufferPool
	TLSConfig    *tls.Config
}

func (c Config) normalized() Config {
	if c.ReactorCount < 1 {
		c.ReactorCount = 1
	}
	if c.NUMANode < 0 {
		c.NUMANode = -1
	}
	return c
}
