package bufpool

import (
	"sync/atomic"

	"github.com/momentics/netkit/api"
)

// classCapacity bounds how many buffers a single (numaNode, sizeClass)
// queue retains before Put starts dropping instead of recycling, same
// fixed capacity the teacher's slab pool used.
const classCapacity = 4096

// classPool recycles buffers of one size class on one NUMA node.
type classPool struct {
	size     int
	numaNode int
	queue    *lockFreeQueue[api.Buffer]

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
}

func newClassPool(size, numaNode int) *classPool {
	return &classPool{
		size:     size,
		numaNode: numaNode,
		queue:    newLockFreeQueue[api.Buffer](classCapacity),
	}
}

func (p *classPool) get() api.Buffer {
	if buf, ok := p.queue.Dequeue(); ok {
		return buf
	}
	p.totalAlloc.Add(1)
	return api.Buffer{
		Data:  make([]byte, p.size),
		NUMA:  p.numaNode,
		Class: p.size,
	}
}

func (p *classPool) put(b api.Buffer) {
	b.Data = b.Data[:cap(b.Data)]
	if p.queue.Enqueue(b) {
		p.totalFree.Add(1)
	}
}
