package bufpool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/bufpool"
)

func TestManagerReusesReleasedBuffer(t *testing.T) {
	mgr := bufpool.NewManager()

	b1 := mgr.Get(128, -1)
	require.Len(t, b1.Bytes(), 128)
	b1.Release()

	b2 := mgr.Get(100, -1)
	require.GreaterOrEqual(t, cap(b2.Bytes()), 128, "same size class should recycle the larger backing array")
	require.Len(t, b2.Bytes(), 100)
}

func TestManagerSegregatesNUMANodes(t *testing.T) {
	mgr := bufpool.NewManager()

	b0 := mgr.Get(256, 0)
	require.Equal(t, 0, b0.NUMANode())
	b0.Release()

	b1 := mgr.Get(256, 1)
	require.Equal(t, 1, b1.NUMANode())
	b1.Release()

	stats := mgr.Stats()
	require.EqualValues(t, 1, stats.NUMAStats[0])
	require.EqualValues(t, 1, stats.NUMAStats[1])
}

func TestManagerStatsTrackAllocations(t *testing.T) {
	mgr := bufpool.NewManager()

	b := mgr.Get(512, -1)
	stats := mgr.Stats()
	require.EqualValues(t, 1, stats.TotalAlloc)
	require.EqualValues(t, 1, stats.InUse)

	b.Release()
	stats = mgr.Stats()
	require.EqualValues(t, 0, stats.InUse)
}

func TestManagerDefaultsNegativeNUMAToZero(t *testing.T) {
	mgr := bufpool.NewManager()
	b := mgr.Get(32, -5)
	require.Equal(t, 0, b.NUMANode())
}
