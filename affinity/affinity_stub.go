//go:build !linux
// +build !linux

package affinity

import "errors"

// setAffinityPlatform is a stub for platforms without sched_setaffinity;
// CPU pinning is a Linux-only capability in this implementation.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}

// platformNUMANodes reports a single NUMA node on platforms without
// sysfs topology reporting.
func platformNUMANodes() int {
	return 1
}
