package netsrv_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/netsrv"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServerTracksConnectionCount(t *testing.T) {
	addr := freeAddr(t)

	srv := netsrv.New(netsrv.Config{ListenAddr: addr}, api.Handlers{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx) }()

	require.Eventually(t, srv.IsRunning, time.Second, 5*time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.OpenConnections() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return srv.OpenConnections() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServerBroadcastReachesAllSessions(t *testing.T) {
	addr := freeAddr(t)

	var connectedCount atomic.Int32
	handlers := api.Handlers{
		OnConnected: func(id api.Identity) { connectedCount.Add(1) },
	}
	srv := netsrv.New(netsrv.Config{ListenAddr: addr}, handlers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Start(ctx) }()
	require.Eventually(t, srv.IsRunning, time.Second, 5*time.Millisecond)

	const n = 3
	conns := make([]net.Conn, n)
	for i := 0; i < n; i++ {
		c, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer c.Close()
		conns[i] = c
	}
	require.Eventually(t, func() bool { return srv.OpenConnections() == n }, time.Second, 5*time.Millisecond)

	require.NoError(t, srv.Broadcast([]byte("hi")))

	for _, c := range conns {
		c.SetReadDeadline(time.Now().Add(time.Second))
		buf := make([]byte, 2)
		nRead, err := c.Read(buf)
		require.NoError(t, err)
		require.Equal(t, "hi", string(buf[:nRead]))
	}
}

func TestServerRestartIsStopThenStart(t *testing.T) {
	addr := freeAddr(t)
	srv := netsrv.New(netsrv.Config{ListenAddr: addr}, api.Handlers{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Start(ctx) }()
	require.Eventually(t, srv.IsRunning, time.Second, 5*time.Millisecond)

	restartCtx, restartCancel := context.WithCancel(context.Background())
	defer restartCancel()
	go func() { _ = srv.Restart(restartCtx) }()

	require.Eventually(t, srv.IsRunning, time.Second, 5*time.Millisecond)
}
