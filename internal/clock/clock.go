package clock

import "time"

// Clock supplies the current time. It is injected into the dispatcher and the
// schedule calculator so time is mockable in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns a Clock backed by the system time in UTC.
func New() Clock {
	return realClock{}
}

// Mock is a manually advanced clock for tests.
type Mock struct {
	now time.Time
}

// NewMock returns a Mock frozen at the given instant.
func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

func (m *Mock) Now() time.Time {
	return m.now
}

// Set moves the mock clock to the given instant.
func (m *Mock) Set(now time.Time) {
	m.now = now
}

// Advance moves the mock clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
