// Package affinity pins the calling goroutine's OS thread to a CPU core
// and reports NUMA topology. The reactor does not pin its worker itself;
// a caller can call Pin from its onThreadInitialize hook. Platform-specific pinning
// lives in affinity_linux.go (golang.org/x/sys/unix, no cgo) and
// affinity_stub.go (other platforms).
package affinity

import (
	"runtime"

	"github.com/momentics/netkit/api"
)

type binder struct {
	scope  api.AffinityScope
	cpuID  int
	numaID int
	pinned bool
}

// New returns an api.Affinity bound to the given scope. Goroutine scope
// still locks the OS thread (runtime.LockOSThread) since Go has no
// per-goroutine CPU affinity primitive; the distinction only affects
// whether a failed Pin releases the thread lock (Goroutine scope keeps it).
func New(scope api.AffinityScope) api.Affinity {
	return &binder{scope: scope, cpuID: -1, numaID: -1}
}

func (b *binder) Pin(cpuID, numaID int) error {
	if cpuID >= 0 {
		runtime.LockOSThread()
		if err := setAffinityPlatform(cpuID); err != nil {
			if b.scope != api.ScopeGoroutine {
				runtime.UnlockOSThread()
			}
			return api.NewError(api.ErrCodeNotSupported, api.CategoryConfiguration,
				"pin CPU affinity").Wrap(err)
		}
	}
	b.cpuID = cpuID
	b.numaID = numaID
	b.pinned = true
	return nil
}

func (b *binder) Unpin() error {
	if !b.pinned {
		return nil
	}
	runtime.UnlockOSThread()
	b.pinned = false
	b.cpuID, b.numaID = -1, -1
	return nil
}

func (b *binder) Get() (cpuID, numaID int, err error) {
	return b.cpuID, b.numaID, nil
}

func (b *binder) Scope() api.AffinityScope { return b.scope }

func (b *binder) ImmutableDescriptor() api.AffinityDescriptor {
	return api.AffinityDescriptor{
		CPUID:  b.cpuID,
		NUMAID: b.numaID,
		Scope:  b.scope,
		Pinned: b.pinned,
	}
}

// NUMANodes returns the number of NUMA nodes visible to the process, used
// by the buffer pool manager to size per-node pools. Falls back to 1 on
// platforms without NUMA topology reporting.
func NUMANodes() int {
	return platformNUMANodes()
}
