package netclient

import (
	"crypto/tls"
	"time"

	"github.com/momentics/netkit/api"
)

// Config configures a Client.
type Config struct {
	Addr        string
	DialTimeout time.Duration
	Polling     bool
	NUMANode    int
	BufferPool  api.BufferPool
	TLSConfig   *tls.Config
}

func (c Config) normalized() Config {
	if c.NUMANode < 0 {
		c.NUMANode = -1
	}
	return c
}
