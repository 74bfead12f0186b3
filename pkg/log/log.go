// Package log provides the logging facade for the core. No component holds
// a package-level logger; a Logger is constructed once and stored on the
// bus (mmu.Bus.Log), and no component writes to it.
package log

import (
	"github.com/sirupsen/logrus"
)

// Logger is the logging facade passed into core components.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logger wraps a logrus.Logger configured for single-line, unadorned output.
type logger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return &logger{l: l}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.l.Infof(format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.l.Errorf(format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.l.Debugf(format, args...)
}
