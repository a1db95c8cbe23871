package msgsock

import "encoding/binary"

// Wire format: 1-byte kind tag + 4-byte big-endian length + payload. The
// kind tag identifies the sending socket's kind; the receive path does not
// check it against its own kind. The length prefix lets the stream
// session's byte pipe be re-framed into discrete messages.
const headerSize = 1 + 4

func encodeFrame(k Kind, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	out[0] = byte(k)
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)))
	copy(out[headerSize:], payload)
	return out
}

// frameDecoder reassembles length-prefixed frames out of an arbitrarily
// chunked byte stream, mirroring how a real nanomsg transport would sit
// atop TCP's byte-stream semantics.
type frameDecoder struct {
	buf []byte
}

// feed appends newly received bytes and passes every complete frame found
// so far (kind, payload) to onFrame, in arrival order; an incomplete tail
// stays buffered for the next call.
func (d *frameDecoder) feed(data []byte, onFrame func(k Kind, payload []byte)) {
	d.buf = append(d.buf, data...)
	for {
		if len(d.buf) < headerSize {
			return
		}
		n := int(binary.BigEndian.Uint32(d.buf[1:5]))
		if len(d.buf) < headerSize+n {
			return
		}
		k := Kind(d.buf[0])
		payload := make([]byte, n)
		copy(payload, d.buf[headerSize:headerSize+n])
		d.buf = d.buf[headerSize+n:]
		onFrame(k, payload)
	}
}
