package session

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/momentics/netkit/api"
)

// handleIOError applies the spec's error filter list: conditions that are
// ordinary parts of connection teardown initiate disconnect silently,
// everything else additionally surfaces through onError.
func (s *Session) handleIOError(err error) {
	if !isSuppressedTeardown(err) {
		s.handlers.Error(api.ErrCodeIOFailed, api.CategoryTransport, err.Error())
	}
	s.Disconnect(true)
}

// isSuppressedTeardown reports whether err is one of the conditions the
// spec says to convert to a silent disconnect rather than an onError call:
// aborted/refused/reset/eof/operation-aborted, and the TLS teardown
// reasons OpenSSL names DECRYPTION_FAILED_OR_BAD_RECORD_MAC,
// PROTOCOL_IS_SHUTDOWN and WRONG_VERSION_NUMBER — mapped here to the
// equivalent crypto/tls error text since this is a pure-Go TLS stack.
func isSuppressedTeardown(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNABORTED) ||
			errors.Is(opErr.Err, syscall.EPIPE) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}

	msg := err.Error()
	for _, frag := range suppressedFragments {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

var suppressedFragments = []string{
	"use of closed network connection",
	"connection reset by peer",
	"broken pipe",
	"operation was canceled",
	"i/o timeout",
	"tls: use of closed connection",      // PROTOCOL_IS_SHUTDOWN equivalent
	"local error: tls: bad record mac",   // DECRYPTION_FAILED_OR_BAD_RECORD_MAC
	"tls: bad record mac",                // DECRYPTION_FAILED_OR_BAD_RECORD_MAC
	"tls: first record does not look like a tls handshake", // WRONG_VERSION_NUMBER
}
