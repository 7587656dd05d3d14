package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Now() time.Time
}

// Clock is the only way hardware-facing code is allowed to wait.
// Every settle delay, strobe hold and poll interval goes through Sleep
// so that tests can substitute a ManualClock.
type Clock interface {
	TimeSource
	// Sleep blocks the caller for d.
	Sleep(d time.Duration)
}
