package wsframe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/wsframe"
)

func TestEncodeRejectsOversizedControlFrame(t *testing.T) {
	_, err := wsframe.Encode(wsframe.Frame{
		Final:   true,
		Opcode:  wsframe.OpcodePing,
		Payload: make([]byte, wsframe.MaxControlPayloadLen+1),
	}, false, [4]byte{})
	require.ErrorIs(t, err, wsframe.ErrControlTooBig)
}

func TestEncodeRejectsOversizedFrame(t *testing.T) {
	_, err := wsframe.Encode(wsframe.Frame{
		Final:   true,
		Opcode:  wsframe.OpcodeBinary,
		Payload: make([]byte, wsframe.MaxFramePayload+1),
	}, false, [4]byte{})
	require.ErrorIs(t, err, wsframe.ErrPayloadTooBig)
}
