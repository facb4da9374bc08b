package typegen

import "testing"

func TestClockStartsStopped(t *testing.T) {
	var c Clock
	if c.Running() {
		t.Error("zero Clock reports running")
	}
	c.Tick(1)
	if got := c.Time(); got != 0 {
		t.Errorf("stopped clock advanced to %v, want 0", got)
	}
}

func TestClockTickAccumulates(t *testing.T) {
	var c Clock
	c.Start()
	for i := 0; i < 10; i++ {
		c.Tick(1)
	}
	assertNear(t, "time after 10 ticks at speed 1", c.Time(), 10*clockStep)

	c.Tick(2.5)
	assertNear(t, "time after speed 2.5 tick", c.Time(), 10*clockStep+2.5*clockStep)
}

func TestClockZeroSpeed(t *testing.T) {
	var c Clock
	c.Start()
	for i := 0; i < 100; i++ {
		c.Tick(0)
	}
	if got := c.Time(); got != 0 {
		t.Errorf("clock advanced to %v at speed 0, want 0", got)
	}
}

func TestClockStopDiscardsTicks(t *testing.T) {
	var c Clock
	c.Start()
	c.Tick(1)
	before := c.Time()

	c.Stop()
	if c.Running() {
		t.Error("Running() = true after Stop")
	}
	c.Tick(1)
	if got := c.Time(); got != before {
		t.Errorf("stopped clock advanced from %v to %v", before, got)
	}

	c.Start()
	c.Tick(1)
	assertNear(t, "time after restart", c.Time(), before+clockStep)
}
