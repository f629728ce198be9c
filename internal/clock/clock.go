// Package clock supplies the timestamps written to session files, manifests
// and telemetry events.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock. Times are UTC at second precision so
// saved sessions and manifests compare equal after a round trip.
type RealClock struct{}

func (c *RealClock) Now() time.Time {
	return Stamp(time.Now())
}

// Stamp normalizes t the way RealClock does.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FakeClock is a settable Clock for tests. It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}
