// Package bufpool implements the NUMA-segmented, size-classed buffer pool
// backing api.BufferPool (spec §3, §4.2 receive/send chains): one
// lock-free recycling queue per (NUMA node, size class) pair, with a
// shared-nothing fast path so no session's Get/Put contends with another
// on a different node.
package bufpool

import (
	"sync"

	"github.com/momentics/netkit/affinity"
	"github.com/momentics/netkit/api"
)

// Manager is a NUMA-aware api.BufferPool. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	mu    sync.RWMutex
	nodes map[int]*nodePools
}

type nodePools struct {
	mu      sync.Mutex
	classes map[int]*classPool
}

// NewManager constructs an empty Manager; per-node, per-class pools are
// created lazily on first Get/Put.
func NewManager() *Manager {
	return &Manager{nodes: make(map[int]*nodePools)}
}

func (m *Manager) nodePoolsFor(numaNode int) *nodePools {
	m.mu.RLock()
	np, ok := m.nodes[numaNode]
	m.mu.RUnlock()
	if ok {
		return np
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if np, ok := m.nodes[numaNode]; ok {
		return np
	}
	np = &nodePools{classes: make(map[int]*classPool)}
	m.nodes[numaNode] = np
	return np
}

func (np *nodePools) classPoolFor(size, numaNode int) *classPool {
	np.mu.Lock()
	defer np.mu.Unlock()
	cp, ok := np.classes[size]
	if !ok {
		cp = newClassPool(size, numaNode)
		np.classes[size] = cp
	}
	return cp
}

// Get returns a buffer of at least size bytes. numaPreferred < 0 is
// treated as node 0; callers that don't care about NUMA locality can
// always pass -1.
func (m *Manager) Get(size, numaPreferred int) api.Buffer {
	if numaPreferred < 0 {
		numaPreferred = 0
	}
	if size > maxClass {
		return api.Buffer{Data: make([]byte, size), NUMA: numaPreferred}
	}
	class := sizeClass(size)
	cp := m.nodePoolsFor(numaPreferred).classPoolFor(class, numaPreferred)
	b := cp.get()
	b.Pool = m
	b.Data = b.Data[:size]
	return b
}

// Put returns b to the pool matching its NUMA node and original
// allocation class. Buffers from a foreign pool are accepted too, so
// long-lived session buffers can migrate at reconnect time.
func (m *Manager) Put(b api.Buffer) {
	class := b.Class
	if class == 0 {
		class = sizeClass(cap(b.Data))
	}
	cp := m.nodePoolsFor(b.NUMA).classPoolFor(class, b.NUMA)
	cp.put(b)
}

// Stats aggregates allocation counters across every node and size class.
func (m *Manager) Stats() api.BufferPoolStats {
	stats := api.BufferPoolStats{NUMAStats: make(map[int]int64)}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for node, np := range m.nodes {
		np.mu.Lock()
		var nodeTotal int64
		for _, cp := range np.classes {
			alloc := cp.totalAlloc.Load()
			free := cp.totalFree.Load()
			stats.TotalAlloc += alloc
			stats.TotalFree += free
			nodeTotal += alloc
		}
		np.mu.Unlock()
		stats.NUMAStats[node] = nodeTotal
	}
	stats.InUse = stats.TotalAlloc - stats.TotalFree
	return stats
}

var _ api.BufferPool = (*Manager)(nil)

// NodeCount reports the number of NUMA nodes visible to the process, so
// callers can pre-warm one Manager pool per node at startup.
func NodeCount() int {
	return affinity.NUMANodes()
}
