//go:build !linux
// +build !linux

package datagram

import "syscall"

// reuseControl is a no-op outside Linux: SO_REUSEPORT has no portable
// equivalent, and plain SO_REUSEADDR alone does not give the multicast
// group sharing spec §4.5 asks for.
func reuseControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
