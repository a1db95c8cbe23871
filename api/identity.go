package api

import (
	"github.com/hashicorp/go-uuid"
)

// Identity is a 128-bit opaque connection identifier, unique within a
// process lifetime with overwhelming probability. It is the server
// registry's key.
type Identity [16]byte

// NewIdentity generates a fresh Identity from 16 cryptographically random
// bytes (no UUID version or variant bits are set), using the same
// generator nabbar-golib wires for its own connection and request
// identifiers.
func NewIdentity() (Identity, error) {
	var id Identity
	raw, err := uuid.GenerateRandomBytes(16)
	if err != nil {
		return id, NewError(ErrCodeInternal, CategoryFatal, "identity generation failed").Wrap(err)
	}
	copy(id[:], raw)
	return id, nil
}

// String renders the identity as a UUID-formatted hex string.
func (id Identity) String() string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 36)
	pos := 0
	for i, b := range id {
		if i == 4 || i == 6 || i == 8 || i == 10 {
			buf[pos] = '-'
			pos++
		}
		buf[pos] = hex[b>>4]
		buf[pos+1] = hex[b&0x0f]
		pos += 2
	}
	return string(buf)
}

// IsZero reports whether the identity was never assigned.
func (id Identity) IsZero() bool {
	return id == Identity{}
}
