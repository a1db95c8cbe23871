package wsframe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
	"github.com/momentics/netkit/wsframe"
)

func newTestIdentity(t *testing.T) api.Identity {
	t.Helper()
	id, err := api.NewIdentity()
	require.NoError(t, err)
	return id
}

func TestSocketHandshakeAndTextExchange(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	serverReactor := reactor.New()
	require.True(t, serverReactor.Start(false))
	defer serverReactor.Stop()

	clientReactor := reactor.New()
	require.True(t, clientReactor.Start(false))
	defer clientReactor.Stop()

	serverReceived := make(chan string, 1)
	clientReceived := make(chan string, 1)

	type result struct {
		sock *wsframe.Socket
		err  error
	}
	serverCh := make(chan result, 1)
	clientCh := make(chan result, 1)

	go func() {
		sock, err := wsframe.NewServerSocket(newTestIdentity(t), serverConn, serverReactor, wsframe.Handlers{
			OnText: func(id api.Identity, text string) { serverReceived <- text },
		})
		serverCh <- result{sock, err}
	}()
	go func() {
		sock, err := wsframe.NewClientSocket(newTestIdentity(t), clientConn, "localhost", "/ws", clientReactor, wsframe.Handlers{
			OnText: func(id api.Identity, text string) { clientReceived <- text },
		}, session.WithRole(session.RoleClient))
		clientCh <- result{sock, err}
	}()

	srvRes := <-serverCh
	require.NoError(t, srvRes.err)
	cliRes := <-clientCh
	require.NoError(t, cliRes.err)

	srvRes.sock.Start(context.Background())
	cliRes.sock.Start(context.Background())

	require.NoError(t, cliRes.sock.SendText("ping from client"))
	select {
	case text := <-serverReceived:
		require.Equal(t, "ping from client", text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server to receive text frame")
	}

	require.NoError(t, srvRes.sock.SendText("pong from server"))
	select {
	case text := <-clientReceived:
		require.Equal(t, "pong from server", text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for client to receive text frame")
	}
}

func TestSocketRespondsToPingWithPong(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	serverReactor := reactor.New()
	require.True(t, serverReactor.Start(false))
	defer serverReactor.Stop()

	clientReactor := reactor.New()
	require.True(t, clientReactor.Start(false))
	defer clientReactor.Stop()

	pongReceived := make(chan []byte, 1)

	type result struct {
		sock *wsframe.Socket
		err  error
	}
	serverCh := make(chan result, 1)
	clientCh := make(chan result, 1)

	go func() {
		sock, err := wsframe.NewServerSocket(newTestIdentity(t), serverConn, serverReactor, wsframe.Handlers{})
		serverCh <- result{sock, err}
	}()
	go func() {
		sock, err := wsframe.NewClientSocket(newTestIdentity(t), clientConn, "localhost", "/ws", clientReactor, wsframe.Handlers{
			OnPong: func(id api.Identity, data []byte) { pongReceived <- data },
		}, session.WithRole(session.RoleClient))
		clientCh <- result{sock, err}
	}()

	srvRes := <-serverCh
	require.NoError(t, srvRes.err)
	cliRes := <-clientCh
	require.NoError(t, cliRes.err)

	srvRes.sock.Start(context.Background())
	cliRes.sock.Start(context.Background())

	require.NoError(t, cliRes.sock.Ping([]byte("ping-payload")))
	select {
	case data := <-pongReceived:
		require.Equal(t, []byte("ping-payload"), data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pong")
	}
}
