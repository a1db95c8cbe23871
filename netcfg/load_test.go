package netcfg_test

import (
	"testing"
	"time"

	libdur "github.com/nabbar/golib/duration"
	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/netcfg"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := netcfg.Parse([]byte(`listen_addr: "127.0.0.1:9000"`))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	require.Equal(t, 1, cfg.ReactorCount)
	require.Equal(t, 4096, cfg.BufferChunkSize)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout.Time())
	require.Equal(t, 2*time.Second, cfg.SurveyDeadline.Time())
}

func TestParseHonorsExplicitValues(t *testing.T) {
	cfg, err := netcfg.Parse([]byte(`
reactor_count: 4
buffer_chunk_size: 8192
survey_deadline: 500ms
`))
	require.NoError(t, err)
	require.Equal(t, 4, cfg.ReactorCount)
	require.Equal(t, 8192, cfg.BufferChunkSize)
	require.Equal(t, libdur.ParseDuration(500*time.Millisecond), cfg.SurveyDeadline)
}

func TestParseAppliesOptionOverrides(t *testing.T) {
	cfg, err := netcfg.Parse([]byte(`reactor_count: 2`), netcfg.WithReactorCount(8))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.ReactorCount) // option overrides the parsed value
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := netcfg.Parse([]byte("not: valid: yaml: [:"))
	require.Error(t, err)
}
