// Package monitoring holds the process-wide error reporter. The default
// reporter discards everything; infra/monitoring installs a Sentry backed one.
package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation. A nil m is ignored.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the installed monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags. A nil err is dropped.
func CaptureException(err error, tags map[string]string) {
	if err == nil || current == nil {
		return
	}
	current.CaptureException(err, tags)
}

// Recover captures panics in goroutines. It must be deferred directly.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Go runs fn on a new goroutine guarded by the installed monitor.
func Go(fn func()) {
	m := current
	go func() {
		defer m.Recover()
		fn()
	}()
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
