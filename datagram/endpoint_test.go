package datagram_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/datagram"
	"github.com/momentics/netkit/reactor"
)

func serverLocalAddr(t *testing.T, ep *datagram.Endpoint) string {
	t.Helper()
	addr := ep.LocalAddr()
	require.NotNil(t, addr)
	return addr.String()
}

func TestEndpointSendToAndReceive(t *testing.T) {
	r := reactor.New()
	r.Start(false)
	defer r.Stop()

	received := make(chan string, 1)
	server := datagram.New(r, api.DatagramHandlers{
		OnReceived: func(peer api.Endpoint, data []byte) {
			received <- string(data)
		},
	}, datagram.Config{})
	require.NoError(t, server.Start("127.0.0.1:0"))
	defer server.Stop()

	serverAddr := serverLocalAddr(t, server)

	client := datagram.New(r, api.DatagramHandlers{}, datagram.Config{})
	require.NoError(t, client.Start("127.0.0.1:0"))
	defer client.Stop()

	require.NoError(t, client.SendTo(serverAddr, []byte("hello")))

	select {
	case msg := <-received:
		require.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}

func TestEndpointConnectRestrictsSendTarget(t *testing.T) {
	r := reactor.New()
	r.Start(false)
	defer r.Stop()

	received := make(chan string, 1)
	server := datagram.New(r, api.DatagramHandlers{
		OnReceived: func(peer api.Endpoint, data []byte) {
			received <- string(data)
		},
	}, datagram.Config{})
	require.NoError(t, server.Start("127.0.0.1:0"))
	defer server.Stop()

	serverAddr := serverLocalAddr(t, server)

	client := datagram.New(r, api.DatagramHandlers{}, datagram.Config{})
	require.NoError(t, client.Connect(serverAddr))
	defer client.Stop()

	require.NoError(t, client.SendTo("", []byte("ping")))

	select {
	case msg := <-received:
		require.Equal(t, "ping", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}

func TestEndpointStopIsIdempotentSafe(t *testing.T) {
	r := reactor.New()
	r.Start(false)
	defer r.Stop()

	ep := datagram.New(r, api.DatagramHandlers{}, datagram.Config{})
	require.NoError(t, ep.Start("127.0.0.1:0"))
	require.NoError(t, ep.Stop())
	require.Error(t, ep.Stop()) // second Stop: already gone
}
