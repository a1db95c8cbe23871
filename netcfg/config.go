// Package netcfg is the process-level configuration for a netkit
// deployment: reactor/engine sizing, buffer pool sizing, NUMA/affinity
// scope, shutdown timeout, TLS, and message-passing survey deadlines.
// Loadable from YAML (gopkg.in/yaml.v3, the pack-wide config format
// confirmed by jonwraymond-metatools-mcp and nishisan-dev-n-backup) with
// functional-option overrides in the teacher's server.ServerOption style.
package netcfg

import (
	"time"

	libdur "github.com/nabbar/golib/duration"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/tlsoverlay"
)

// Config is the root, YAML-loadable configuration document.
//
// ShutdownTimeout and SurveyDeadline use nabbar-golib's duration.Duration
// rather than time.Duration directly: gopkg.in/yaml.v3 has no native
// string-duration support, and duration.Duration supplies the
// UnmarshalYAML this document relies on for fields like "500ms" or
// "5d23h15m13s".
type Config struct {
	ListenAddr      string             `yaml:"listen_addr"`
	ReactorCount    int                `yaml:"reactor_count"`
	Polling         bool               `yaml:"polling"`
	BufferChunkSize int                `yaml:"buffer_chunk_size"`
	AffinityScope   api.AffinityScope  `yaml:"affinity_scope"`
	ShutdownTimeout libdur.Duration    `yaml:"shutdown_timeout"`
	SurveyDeadline  libdur.Duration    `yaml:"survey_deadline"`
	TLS             *tlsoverlay.Config `yaml:"tls"`
}

// Option customizes a Config after it is loaded, mirroring the teacher's
// server.ServerOption shape.
type Option func(*Config)

// WithAffinityScope overrides CPU/NUMA binding scope.
func WithAffinityScope(scope api.AffinityScope) Option {
	return func(c *Config) { c.AffinityScope = scope }
}

// WithReactorCount overrides the number of reactors an Engine spins up.
func WithReactorCount(n int) Option {
	return func(c *Config) { c.ReactorCount = n }
}

// WithShutdownTimeout overrides the graceful-shutdown deadline.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) { c.ShutdownTimeout = libdur.ParseDuration(d) }
}

// WithSurveyDeadline overrides the default SURVEYOR response window.
func WithSurveyDeadline(d time.Duration) Option {
	return func(c *Config) { c.SurveyDeadline = libdur.ParseDuration(d) }
}

// Apply runs opts over c in order, returning the mutated Config.
func (c Config) Apply(opts ...Option) Config {
	for _, o := range opts {
		o(&c)
	}
	return c
}

// defaulted fills zero-valued fields with the engine's operational
// defaults (mirrors netsrv.Config.normalized/netclient.Config.normalized,
// applied once at the netcfg layer so every consumer sees the same
// defaults regardless of how it was constructed).
func (c Config) defaulted() Config {
	if c.ReactorCount <= 0 {
		c.ReactorCount = 1
	}
	if c.BufferChunkSize <= 0 {
		c.BufferChunkSize = 4096
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = libdur.ParseDuration(5 * time.Second)
	}
	if c.SurveyDeadline <= 0 {
		c.SurveyDeadline = libdur.ParseDuration(2 * time.Second)
	}
	return c
}
