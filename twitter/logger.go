package twitter

import "github.com/sirupsen/logrus"

// Logger is the logging collaborator the decoder and monitor call into.
// It is deliberately narrow so callers can adapt any structured logger
// without pulling this package's dependency into their own log plumbing.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to the Logger interface.
type logrusLogger struct {
	entry *logrus.Logger
}

// NewLogrusLogger returns a Logger backed by logrus, using its default
// logger if l is nil.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{entry: l}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// nopLogger discards everything; used as a safe fallback so a nil Logger
// never has to be nil-checked at every call site.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

var pkgLogger Logger = NewLogrusLogger(nil)

// defaultLogger returns the package-wide fallback logger used by entity
// decoding, which has no natural place to receive an injected Logger.
// SetDefaultLogger lets callers route it to their own logrus instance.
func defaultLogger() Logger {
	if pkgLogger == nil {
		return nopLogger{}
	}
	return pkgLogger
}

// SetDefaultLogger replaces the package-wide fallback logger used for
// entity decoding warnings (malformed indices, etc). Passing nil disables
// logging entirely.
func SetDefaultLogger(l Logger) {
	if l == nil {
		pkgLogger = nopLogger{}
		return
	}
	pkgLogger = l
}
