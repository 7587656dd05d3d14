package framework

import (
	"sync"
	"time"
)

type systemClock struct{}

// SystemClock is the Clock backed by the time package.
var SystemClock Clock = systemClock{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock is a Clock which never blocks: Sleep advances the
// current time by the requested duration.
type ManualClock struct {
	// OnSleep, if set, is called after the time has advanced.
	OnSleep func(d time.Duration)

	now    time.Time
	slept  time.Duration
	sleeps int
	lock   sync.Mutex
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements TimeSource.
func (c *ManualClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Sleep implements Clock.
func (c *ManualClock) Sleep(d time.Duration) {
	c.lock.Lock()
	if d > 0 {
		c.now = c.now.Add(d)
		c.slept += d
	}
	c.sleeps++
	fn := c.OnSleep
	c.lock.Unlock()
	if fn != nil {
		fn(d)
	}
}

// Slept returns the accumulated sleep time.
func (c *ManualClock) Slept() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.slept
}

// Sleeps returns the number of Sleep calls.
func (c *ManualClock) Sleeps() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.sleeps
}
