// Package timer supplies the elapsed-time capability the host reports next to
// each result. The evaluator itself never reads a clock.
package timer

import "time"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Timer
type Timer interface {
	// Start resets the timer.
	Start()
	// Elapsed returns the time since the last Start.
	Elapsed() time.Duration
}

// Monotonic measures wall time with the runtime's monotonic clock.
type Monotonic struct {
	now   func() time.Time
	start time.Time
}

// NewMonotonic returns a started timer.
func NewMonotonic() *Monotonic {
	m := &Monotonic{now: time.Now}
	m.Start()
	return m
}

func (m *Monotonic) Start() {
	m.start = m.now()
}

func (m *Monotonic) Elapsed() time.Duration {
	return m.now().Sub(m.start)
}
