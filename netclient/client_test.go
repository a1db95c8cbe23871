package netclient_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/netclient"
)

// echoListener accepts one connection and echoes whatever it reads.
func echoListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				_, _ = conn.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestClientConnectSendReceive(t *testing.T) {
	addr := echoListener(t)

	received := make(chan string, 1)
	cli := netclient.New(netclient.Config{Addr: addr}, api.Handlers{
		OnReceived: func(id api.Identity, data []byte) {
			received <- string(data)
		},
	})
	defer cli.Close()

	require.NoError(t, cli.Connect(context.Background()))
	require.Eventually(t, cli.IsConnected, time.Second, 5*time.Millisecond)

	cli.Send([]byte("ping"))

	select {
	case msg := <-received:
		require.Equal(t, "ping", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for echo")
	}
}

func TestClientReconnectPreservesByteCounters(t *testing.T) {
	addr := echoListener(t)

	cli := netclient.New(netclient.Config{Addr: addr}, api.Handlers{})
	defer cli.Close()

	require.NoError(t, cli.Connect(context.Background()))
	require.Eventually(t, cli.IsConnected, time.Second, 5*time.Millisecond)

	cli.Send([]byte("hello"))
	require.Eventually(t, func() bool { return cli.BytesSent() == 5 }, time.Second, 5*time.Millisecond)

	require.NoError(t, cli.Reconnect(context.Background()))
	require.Eventually(t, cli.IsConnected, time.Second, 5*time.Millisecond)

	require.GreaterOrEqual(t, cli.BytesSent(), int64(5))
}
