package clock

import (
	"sync"
	"time"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock in UTC.
type systemClock struct{}

// System returns a Clock backed by time.Now, normalised to UTC.
func System() Clock {
	return systemClock{}
}

// Now implements Clock.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts an ordinary function to the Clock interface.
type Func func() time.Time

// Now implements Clock.
func (f Func) Now() time.Time {
	return f()
}

// Manual is a Clock whose time only moves when told to.
// It is safe for concurrent use and intended for tests.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual returns a Manual clock set to t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
