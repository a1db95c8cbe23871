package datagram

import (
	"net"
	"sync"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/momentics/netkit/api"
)

// multicastBinding wraps whichever IP-version-specific packet connection
// is actually joined to groups, since golang.org/x/net's ipv4.PacketConn
// and ipv6.PacketConn expose join/leave and TTL/loopback controls that
// net.PacketConn itself does not (the standard library's only portable
// path to multicast group membership and socket options).
type multicastBinding struct {
	mu     sync.Mutex
	v4     *ipv4.PacketConn
	v6     *ipv6.PacketConn
	groups map[string]*net.UDPAddr
}

func newMulticastBinding(conn net.PacketConn, v6Family bool) *multicastBinding {
	b := &multicastBinding{groups: make(map[string]*net.UDPAddr)}
	if v6Family {
		b.v6 = ipv6.NewPacketConn(conn)
	} else {
		b.v4 = ipv4.NewPacketConn(conn)
	}
	return b
}

// JoinMulticast joins the endpoint's bound socket to group (e.g.
// "239.0.0.1:9000" or "[ff02::1]:9000"), enabling multicast loopback so
// same-host senders can observe their own traffic, per spec §4.5.
func (e *Endpoint) JoinMulticast(group string) error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return api.ErrNotRunning
	}

	gaddr, err := net.ResolveUDPAddr("udp", group)
	if err != nil {
		return api.NewError(api.ErrCodeMalformedAddress, api.CategoryConfiguration,
			"resolve multicast group "+group).Wrap(err)
	}

	// The first up, multicast-capable interface is used, or nil (the
	// kernel's default) if there is none; no interface can be chosen
	// through Config.
	iface := defaultMulticastInterface()

	e.mu.Lock()
	if e.mcast == nil {
		e.mcast = newMulticastBinding(conn, gaddr.IP.To4() == nil)
	}
	b := e.mcast
	e.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	ttl := e.cfg.MulticastTTL

	if b.v6 != nil {
		if jerr := b.v6.JoinGroup(iface, gaddr); jerr != nil {
			return api.NewError(api.ErrCodeIOFailed, api.CategoryTransport,
				"join multicast group "+group).Wrap(jerr)
		}
		_ = b.v6.SetMulticastLoopback(true)
		if ttl > 0 {
			_ = b.v6.SetMulticastHopLimit(ttl)
		}
	} else {
		if jerr := b.v4.JoinGroup(iface, gaddr); jerr != nil {
			return api.NewError(api.ErrCodeIOFailed, api.CategoryTransport,
				"join multicast group "+group).Wrap(jerr)
		}
		_ = b.v4.SetMulticastLoopback(true)
		if ttl > 0 {
			_ = b.v4.SetMulticastTTL(ttl)
		}
	}
	b.groups[group] = gaddr
	return nil
}

// LeaveMulticast leaves a previously joined group.
func (e *Endpoint) LeaveMulticast(group string) error {
	e.mu.Lock()
	b := e.mcast
	e.mu.Unlock()
	if b == nil {
		return api.ErrNotRunning
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	gaddr, ok := b.groups[group]
	if !ok {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"not joined to "+group)
	}

	iface := defaultMulticastInterface()
	if b.v6 != nil {
		_ = b.v6.LeaveGroup(iface, gaddr)
	} else {
		_ = b.v4.LeaveGroup(iface, gaddr)
	}
	delete(b.groups, group)
	return nil
}

// defaultMulticastInterface picks the first up, multicast-capable
// interface, or nil (system default) if none is found — the common case
// on a single-NIC loopback test host.
func defaultMulticastInterface() *net.Interface {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for i := range ifaces {
		iface := ifaces[i]
		if iface.Flags&net.FlagMulticast != 0 && iface.Flags&net.FlagUp != 0 {
			return &iface
		}
	}
	return nil
}
