// Package log exposes a small pluggable logging facade so library consumers
// can route CodeSentinel's diagnostics into their own logger.
package log

import "github.com/sirupsen/logrus"

// Logger is the minimal logging surface the engine needs. Skip-and-continue
// events (invalid rules, unreadable files, failing rule applications) are
// reported through it; nothing in the core writes to stdout/stderr directly.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

var logger Logger = defaultLogger()

func defaultLogger() Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l Logger) {
	if l == nil {
		logger = defaultLogger()
		return
	}
	logger = l
}

func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
