package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/johan198205/lekia-translations-sub000/internal/log"
)

type logger struct {
	entry *logrus.Entry
}

// NewLogger returns a log.Logger backed by the given logrus entry.
func NewLogger(entry *logrus.Entry) log.Logger {
	return logger{entry: entry}
}

func (l logger) Infof(format string, args ...interface{})    { l.entry.Infof(format, args...) }
func (l logger) Warningf(format string, args ...interface{}) { l.entry.Warningf(format, args...) }
func (l logger) Errorf(format string, args ...interface{})   { l.entry.Errorf(format, args...) }
func (l logger) Debugf(format string, args ...interface{})   { l.entry.Debugf(format, args...) }

func (l logger) WithValues(values map[string]interface{}) log.Logger {
	return logger{entry: l.entry.WithFields(values)}
}
