package ecs

// Clock is the shared simulation clock in seconds. It only moves when the world
// is stepped, so every timer and cooldown is deterministic.
type Clock struct {
	now float64
}

func (c *Clock) Now() float64 {
	return c.now
}

// Advance moves time forward by dt seconds. Negative deltas are ignored.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.now += dt
	}
}

// Set jumps the clock to t if t is not in the past.
func (c *Clock) Set(t float64) {
	if t > c.now {
		c.now = t
	}
}
