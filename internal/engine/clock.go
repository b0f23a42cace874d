// Package engine provides the real-time day clock that drives a bakery
// session forward when it runs as a long-lived server.
package engine

import (
	"log/slog"
	"time"
)

// Clock advances game days on a wall-clock interval.
type Clock struct {
	Interval time.Duration // real time per game day at speed 1.0
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Running  bool

	// OnDay fires once per elapsed game day. Populated during setup.
	OnDay func()
}

// NewClock creates a paused-capable clock with the given day interval.
func NewClock(interval time.Duration) *Clock {
	return &Clock{
		Interval: interval,
		Speed:    1.0,
	}
}

// Run starts the day loop. Blocks until Stop is called.
func (c *Clock) Run() {
	c.Running = true
	slog.Info("day clock started", "interval", c.Interval, "speed", c.Speed)

	for c.Running {
		if c.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		if c.OnDay != nil {
			c.OnDay()
		}

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(c.Interval) / c.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("day clock stopped")
}

// Stop halts the day loop.
func (c *Clock) Stop() {
	c.Running = false
}
