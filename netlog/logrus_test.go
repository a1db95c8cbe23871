package netlog_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/momentics/netkit/netlog"
)

func TestAdapterWritesThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	log := netlog.New(l).WithField("component", "session")
	log.Infof("session %s connected", "abc123")

	require.Contains(t, buf.String(), "session abc123 connected")
	require.Contains(t, buf.String(), "component=session")
}

func TestAdapterDefaultsToStandardLogger(t *testing.T) {
	log := netlog.New(nil)
	require.NotNil(t, log)
}
