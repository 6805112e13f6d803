// Package log provides the Logger interface used throughout the core to
// report non-fatal conditions: header checksum mismatches and writes to
// unmapped I/O registers. Fatal conditions (§7, unsupported MBC) are returned as errors
// instead and never go through this interface.
package log

import "github.com/sirupsen/logrus"

type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logrusLogger adapts a logrus.Entry to Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by logrus, tagged with the given component
// name so multi-component log output (cpu, ppu, cartridge, ...) stays
// attributable.
func New(component string) Logger {
	return &logrusLogger{entry: logrus.WithField("component", component)}
}

func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
