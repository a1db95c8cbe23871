package wsframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeFromBytesRoundTripsUnmasked(t *testing.T) {
	payload := []byte("hello reactor")
	raw, err := Encode(Frame{Final: true, Opcode: OpcodeText, Payload: payload}, false, [4]byte{})
	require.NoError(t, err)

	f, n, err := decodeFromBytes(raw)
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Equal(t, len(raw), n)
	require.Equal(t, OpcodeText, f.Opcode)
	require.True(t, f.Final)
	require.Equal(t, payload, f.Payload)
}

func TestDecodeFromBytesReportsIncomplete(t *testing.T) {
	raw, err := Encode(Frame{Final: true, Opcode: OpcodeBinary, Payload: []byte("0123456789")}, false, [4]byte{})
	require.NoError(t, err)

	f, n, err := decodeFromBytes(raw[:len(raw)-3])
	require.NoError(t, err)
	require.Nil(t, f)
	require.Equal(t, 0, n)
}

func TestDecoderFeedSplitsAcrossMultipleFrames(t *testing.T) {
	a, err := Encode(Frame{Final: true, Opcode: OpcodeText, Payload: []byte("a")}, false, [4]byte{})
	require.NoError(t, err)
	b, err := Encode(Frame{Final: true, Opcode: OpcodeText, Payload: []byte("bb")}, false, [4]byte{})
	require.NoError(t, err)

	var frames []Frame
	var dec decoder

	// feed byte-by-byte across the concatenation of both frames to
	// exercise the accumulate-and-drain loop under worst-case chunking.
	stream := append(append([]byte{}, a...), b...)
	for i := range stream {
		require.NoError(t, dec.feed(stream[i:i+1], func(f Frame) { frames = append(frames, f) }))
	}

	require.Len(t, frames, 2)
	require.Equal(t, []byte("a"), frames[0].Payload)
	require.Equal(t, []byte("bb"), frames[1].Payload)
}

func TestDecodeFromBytesRejectsOversizedLength(t *testing.T) {
	raw := []byte{0x82, 127, 0, 0, 0, 0, 0, 0x20, 0, 0} // length field = 1<<21
	_, _, err := decodeFromBytes(raw)
	require.ErrorIs(t, err, ErrPayloadTooBig)
}
