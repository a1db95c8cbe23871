//go:build linux
// +build linux

package datagram

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseControl enables SO_REUSEADDR and SO_REUSEPORT on the listening
// socket before bind, the same way a multicast group member or a second
// process sharing a port would need to (spec §4.5: "multicast is achieved
// by binding to the group address with reuse_address and reuse_port
// enabled").
func reuseControl(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		if opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); opErr != nil {
			return
		}
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
