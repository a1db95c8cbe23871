package session_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
)

func newTestIdentity(t *testing.T) api.Identity {
	t.Helper()
	id, err := api.NewIdentity()
	require.NoError(t, err)
	return id
}

func TestSessionRawHandshakeAndReceive(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	serverReactor := reactor.New()
	require.True(t, serverReactor.Start(false))
	defer serverReactor.Stop()

	clientReactor := reactor.New()
	require.True(t, clientReactor.Start(false))
	defer clientReactor.Stop()

	received := make(chan []byte, 1)
	var handshakedOnce sync.Once
	handshaked := make(chan struct{})

	serverHandlers := api.Handlers{
		OnHandshaked: func(id api.Identity) {
			handshakedOnce.Do(func() { close(handshaked) })
		},
		OnReceived: func(id api.Identity, data []byte) {
			buf := make([]byte, len(data))
			copy(buf, data)
			received <- buf
		},
	}

	srv := session.New(newTestIdentity(t), serverConn, serverReactor, serverHandlers)
	srv.Start(context.Background())

	cli := session.New(newTestIdentity(t), clientConn, clientReactor, api.Handlers{}, session.WithRole(session.RoleClient))
	cli.Start(context.Background())

	select {
	case <-handshaked:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handshake")
	}

	cli.Send([]byte("hello"))

	select {
	case data := <-received:
		require.Equal(t, "hello", string(data))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
	}
}

func TestSessionDisconnectIsIdempotent(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	r := reactor.New()
	require.True(t, r.Start(false))
	defer r.Stop()

	var disconnectCount int32
	var mu sync.Mutex
	disconnected := make(chan struct{}, 2)

	s := session.New(newTestIdentity(t), serverConn, r, api.Handlers{
		OnDisconnected: func(id api.Identity) {
			mu.Lock()
			disconnectCount++
			mu.Unlock()
			disconnected <- struct{}{}
		},
	})
	s.Start(context.Background())

	s.Disconnect(false)
	s.Disconnect(false)

	select {
	case <-disconnected:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for disconnect")
	}

	// Give the second Disconnect call a chance to (wrongly) fire again.
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.EqualValues(t, 1, disconnectCount)
	require.Equal(t, api.StateDisconnected, s.State())
}
