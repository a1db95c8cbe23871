package wsframe

import "encoding/binary"

// decodeFromBytes parses one frame from the front of raw, returning the
// frame, the number of bytes it consumed, and an error. A nil frame with a
// nil error means raw does not yet hold a complete frame — adapted from
// the teacher's protocol/frame_codec.go DecodeFrameFromBytes, which uses
// the same "incomplete is not an error" convention so a streaming decoder
// can keep buffering without treating a short read as a protocol fault.
func decodeFromBytes(raw []byte) (*Frame, int, error) {
	if len(raw) < 2 {
		return nil, 0, nil
	}
	final := raw[0]&finBit != 0
	opcode := Opcode(raw[0] & 0x0F)
	masked := raw[1]&maskBit != 0
	length := int64(raw[1] & 0x7F)
	offset := 2

	switch length {
	case 126:
		if len(raw) < offset+2 {
			return nil, 0, nil
		}
		length = int64(binary.BigEndian.Uint16(raw[offset:]))
		offset += 2
	case 127:
		if len(raw) < offset+8 {
			return nil, 0, nil
		}
		length = int64(binary.BigEndian.Uint64(raw[offset:]))
		offset += 8
	}

	if length > MaxFramePayload {
		return nil, 0, ErrPayloadTooBig
	}

	var maskKey [4]byte
	if masked {
		if len(raw) < offset+4 {
			return nil, 0, nil
		}
		copy(maskKey[:], raw[offset:offset+4])
		offset += 4
	}

	total := offset + int(length)
	if len(raw) < total {
		return nil, 0, nil
	}

	payload := make([]byte, length)
	copy(payload, raw[offset:total])
	if masked {
		applyMask(payload, maskKey)
	}

	return &Frame{Final: final, Opcode: opcode, Masked: masked, Payload: payload}, total, nil
}

// decoder reassembles frames out of arbitrarily chunked stream reads,
// mirroring msgsock.frameDecoder's accumulate-and-drain shape.
type decoder struct {
	buf []byte
}

func (d *decoder) feed(data []byte, onFrame func(Frame)) error {
	d.buf = append(d.buf, data...)
	for {
		f, n, err := decodeFromBytes(d.buf)
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		onFrame(*f)
		d.buf = d.buf[n:]
	}
}
