package typegen

// clockStep is the base clock increment per refresh tick, scaled by
// MetaballSpeed.
const clockStep = 0.01

// Clock is the shared animation time accumulator for the metaball field.
// It is an explicit tick source: the host display loop calls Tick once per
// refresh and the pure layout functions take the accumulated time as a
// parameter, so nothing in the core depends on a real display.
//
// The clock only advances while running. Start and Stop mirror the refresh
// subscription: a stopped clock means no per-refresh work is scheduled at
// all, not that ticks are silently ignored.
type Clock struct {
	time    float64
	running bool
}

// Start begins advancing the clock on subsequent ticks.
func (c *Clock) Start() { c.running = true }

// Stop freezes the clock. Ticks received while stopped are discarded, which
// models the torn-down refresh subscription.
func (c *Clock) Stop() { c.running = false }

// Running reports whether the clock is subscribed to refresh ticks.
func (c *Clock) Running() bool { return c.running }

// Time returns the accumulated animation time.
func (c *Clock) Time() float64 { return c.time }

// Tick advances the clock by one refresh interval scaled by speed.
// A stopped clock or zero speed leaves the time untouched.
func (c *Clock) Tick(speed float64) {
	if !c.running || speed <= 0 {
		return
	}
	c.time += clockStep * speed
}
