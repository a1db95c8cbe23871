package api

import (
	"fmt"
	"net"
)

// Family enumerates the IP family of an Endpoint.
type Family int

const (
	FamilyV4 Family = iota
	FamilyV6
)

func (f Family) String() string {
	if f == FamilyV6 {
		return "v6"
	}
	return "v4"
}

// Endpoint is an immutable protocol-family/address/port tuple, resolved
// eagerly at construction and never mutated afterward.
type Endpoint struct {
	family  Family
	address string
	port    int
}

// ResolveEndpoint resolves a bare address or host name (no ":port" suffix)
// plus an explicit port argument into an immutable Endpoint, eagerly distinguishing IPv4
// from IPv6 the way the reactor's listeners need to bind.
func ResolveEndpoint(address string, port int) (Endpoint, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		// Not a literal address; resolve against DNS the way the stream
		// client's dialer would, so misconfiguration surfaces synchronously.
		addrs, err := net.LookupIP(address)
		if err != nil || len(addrs) == 0 {
			return Endpoint{}, NewError(ErrCodeMalformedAddress, CategoryConfiguration,
				fmt.Sprintf("cannot resolve address %q", address))
		}
		ip = addrs[0]
	}
	fam := FamilyV4
	if ip.To4() == nil {
		fam = FamilyV6
	}
	return Endpoint{family: fam, address: ip.String(), port: port}, nil
}

// EndpointFromAddr converts a net.Addr (as returned by PacketConn.ReadFrom
// or net.Conn.RemoteAddr) into an Endpoint. Used by the datagram endpoint
// to label each inbound packet with its sender.
func EndpointFromAddr(addr net.Addr) Endpoint {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return Endpoint{address: addr.String()}
	}
	port := 0
	fmt.Sscanf(portStr, "%d", &port)
	fam := FamilyV4
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		fam = FamilyV6
	}
	return Endpoint{family: fam, address: host, port: port}
}

// Family returns the resolved IP family.
func (e Endpoint) Family() Family { return e.family }

// Address returns the dotted-quad or textual IPv6 address.
func (e Endpoint) Address() string { return e.address }

// Port returns the port number.
func (e Endpoint) Port() int { return e.port }

// String renders "address:port", bracketing IPv6 literals.
func (e Endpoint) String() string {
	if e.family == FamilyV6 {
		return fmt.Sprintf("[%s]:%d", e.address, e.port)
	}
	return fmt.Sprintf("%s:%d", e.address, e.port)
}
