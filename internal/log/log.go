// Package log provides the logging interface used across the application.
//
// Services accept any implementation of [Logger]. Use [Noop] to disable
// logging (this is the default when no logger is configured).
package log

// Kv is a helper type for structured logging key-value pairs.
type Kv = map[string]interface{}

// Logger is the interface that the application loggers must implement.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	WithValues(values map[string]interface{}) Logger
}

// Noop is a logger that discards all log output.
var Noop = noop{}

type noop struct{}

func (n noop) Infof(format string, args ...interface{})    {}
func (n noop) Warningf(format string, args ...interface{}) {}
func (n noop) Errorf(format string, args ...interface{})   {}
func (n noop) Debugf(format string, args ...interface{})   {}
func (n noop) WithValues(map[string]interface{}) Logger    { return n }
