//go:build linux
// +build linux

package affinity

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform pins the calling OS thread to cpuID via
// sched_setaffinity(2), using golang.org/x/sys/unix rather than cgo.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// platformNUMANodes counts NUMA nodes by reading the sysfs topology,
// falling back to 1 when the node list is unavailable (containers without
// /sys mounted, non-NUMA hardware).
func platformNUMANodes() int {
	entries, err := os.ReadDir("/sys/devices/system/node")
	if err != nil {
		return 1
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "node") {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
