// Package netlog adapts github.com/sirupsen/logrus onto api.Logger, the
// module's structured-logging contract (the transport components do not
// take a Logger). Grounded on nabbar-golib/logger's entry.go, which wraps a
// *logrus.Entry behind its own field-oriented logging interface the same
// way this adapter wraps one behind api.Logger.
package netlog

import (
	"github.com/sirupsen/logrus"

	"github.com/momentics/netkit/api"
)

type adapter struct {
	entry *logrus.Entry
}

// New wraps a *logrus.Logger as an api.Logger. A nil logger defaults to
// logrus.StandardLogger().
func New(l *logrus.Logger) api.Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return adapter{entry: logrus.NewEntry(l)}
}

func (a adapter) Debugf(format string, args ...any) { a.entry.Debugf(format, args...) }
func (a adapter) Infof(format string, args ...any)  { a.entry.Infof(format, args...) }
func (a adapter) Warnf(format string, args ...any)  { a.entry.Warnf(format, args...) }
func (a adapter) Errorf(format string, args ...any) { a.entry.Errorf(format, args...) }

func (a adapter) WithField(key string, value any) api.Logger {
	return adapter{entry: a.entry.WithField(key, value)}
}
