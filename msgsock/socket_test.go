package msgsock_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/msgsock"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestPushPullDeliversMessage(t *testing.T) {
	addr := freeAddr(t)
	received := make(chan string, 1)

	pull := msgsock.New(msgsock.Pull, msgsock.Handlers{
		OnReceived: func(peer api.Identity, msg []byte) { received <- string(msg) },
	}, msgsock.Config{})
	require.NoError(t, pull.Bind(context.Background(), addr))
	defer pull.Close()

	time.Sleep(20 * time.Millisecond)

	push := msgsock.New(msgsock.Push, msgsock.Handlers{}, msgsock.Config{})
	require.NoError(t, push.Connect(context.Background(), addr))
	defer push.Close()

	require.NoError(t, push.Send([]byte("work item")))

	select {
	case msg := <-received:
		require.Equal(t, "work item", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPullSocketCannotSend(t *testing.T) {
	pull := msgsock.New(msgsock.Pull, msgsock.Handlers{}, msgsock.Config{})
	require.Error(t, pull.Send([]byte("x")))
}

func TestSubFiltersBySubscribedPrefix(t *testing.T) {
	addr := freeAddr(t)
	received := make(chan string, 4)

	pub := msgsock.New(msgsock.Pub, msgsock.Handlers{}, msgsock.Config{})
	require.NoError(t, pub.Bind(context.Background(), addr))
	defer pub.Close()

	time.Sleep(20 * time.Millisecond)

	sub := msgsock.New(msgsock.Sub, msgsock.Handlers{
		OnReceived: func(peer api.Identity, msg []byte) { received <- string(msg) },
	}, msgsock.Config{})
	require.NoError(t, sub.Connect(context.Background(), addr))
	defer sub.Close()
	require.NoError(t, sub.Subscribe([]byte("sports.")))

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, pub.Send([]byte("weather.rain")))
	require.NoError(t, pub.Send([]byte("sports.goal")))

	select {
	case msg := <-received:
		require.Equal(t, "sports.goal", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscribed message")
	}
}

func TestReqRejectsSecondSendBeforeReply(t *testing.T) {
	addr := freeAddr(t)

	rep := msgsock.New(msgsock.Rep, msgsock.Handlers{
		OnReceived: func(peer api.Identity, msg []byte) {},
	}, msgsock.Config{})
	require.NoError(t, rep.Bind(context.Background(), addr))
	defer rep.Close()

	time.Sleep(20 * time.Millisecond)

	req := msgsock.New(msgsock.Req, msgsock.Handlers{}, msgsock.Config{})
	require.NoError(t, req.Connect(context.Background(), addr))
	defer req.Close()

	require.NoError(t, req.Send([]byte("first")))
	require.Error(t, req.Send([]byte("second"))) // reply to "first" hasn't arrived yet
}

func TestSurveyorCollectsNoRespondentWithinDeadline(t *testing.T) {
	addr := freeAddr(t)

	surveyor := msgsock.New(msgsock.Surveyor, msgsock.Handlers{}, msgsock.Config{})
	require.NoError(t, surveyor.Bind(context.Background(), addr))
	defer surveyor.Close()

	responses, err := surveyor.Survey([]byte("ping"), 50*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, responses) // no respondent ever connected; verifies no panic/hang
}
