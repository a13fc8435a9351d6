// Package telemetry samples field statistics and records run output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/fearfield/grid"
)

// Collector accumulates input events within time windows and produces
// WindowStats sampled from the field store.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	forceFrames  int
	sourceFrames int
	clears       int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordInjection records one frame's pointer input.
func (c *Collector) RecordInjection(force, source bool) {
	if force {
		c.forceFrames++
	}
	if source {
		c.sourceFrames++
	}
}

// RecordClear records a user reset.
func (c *Collector) RecordClear() {
	c.clears++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples both species from store and resets counters for the next
// window. species lists the field sets in store order.
func (c *Collector) Flush(currentTick int32, store *grid.Store, species [grid.NumSpecies]grid.FieldSet) WindowStats {
	n := store.N()
	a, b := species[0], species[1]
	da, db := store.Field(a.Density), store.Field(b.Density)

	sa := SampleSpecies(n, da, store.Field(a.U), store.Field(a.V))
	sb := SampleSpecies(n, db, store.Field(b.U), store.Field(b.V))

	var dist float64
	if sa.Mass > 0 && sb.Mass > 0 {
		dist = math.Hypot(sa.CentroidX-sb.CentroidX, sa.CentroidY-sb.CentroidY)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		ForceFrames:  c.forceFrames,
		SourceFrames: c.sourceFrames,
		Clears:       c.clears,

		MassA:      sa.Mass,
		PeakA:      sa.Peak,
		MaxSpeedA:  sa.MaxSpeed,
		SpeedP50A:  sa.SpeedP50,
		SpeedP90A:  sa.SpeedP90,
		CentroidAX: sa.CentroidX,
		CentroidAY: sa.CentroidY,

		MassB:      sb.Mass,
		PeakB:      sb.Peak,
		MaxSpeedB:  sb.MaxSpeed,
		SpeedP50B:  sb.SpeedP50,
		SpeedP90B:  sb.SpeedP90,
		CentroidBX: sb.CentroidX,
		CentroidBY: sb.CentroidY,

		CentroidDistance: dist,
		Overlap:          Overlap(n, da, db),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.forceFrames = 0
	c.sourceFrames = 0
	c.clears = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
