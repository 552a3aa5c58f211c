// Package sim provides the simulation clock that drives every angular
// accumulator in the orrery.
package sim

import "math"

// Clock tracks real elapsed time, the pause flag and the time-scale
// multiplier. Its advance value is the only way time reaches body angles.
type Clock struct {
	elapsed   float64
	simTime   float64
	frames    uint64
	paused    bool
	timeScale float64
}

// NewClock returns a running clock at time scale 1.
func NewClock() *Clock {
	return &Clock{timeScale: 1}
}

// Tick records dt seconds of real time and returns the advance value: 0
// while paused, dt*timeScale otherwise. Negative or NaN dt counts as 0.
func (c *Clock) Tick(dt float64) float64 {
	if !(dt > 0) {
		dt = 0
	}
	c.elapsed += dt
	c.frames++

	if c.paused {
		return 0
	}
	advance := dt * c.timeScale
	c.simTime += advance
	return advance
}

// TogglePause flips the pause flag and returns the new state.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// SetPaused sets the pause flag.
func (c *Clock) SetPaused(p bool) {
	c.paused = p
}

// SetTimeScale sets the multiplier, clamped to >= 0.
func (c *Clock) SetTimeScale(v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	c.timeScale = v
}

// AdjustTimeScale adds delta to the multiplier, clamped to >= 0.
func (c *Clock) AdjustTimeScale(delta float64) {
	c.SetTimeScale(c.timeScale + delta)
}

func (c *Clock) Paused() bool       { return c.paused }
func (c *Clock) TimeScale() float64 { return c.timeScale }

// Elapsed is the total real time seen by Tick, paused or not.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// SimTime is the sum of every advance value returned so far.
func (c *Clock) SimTime() float64 { return c.simTime }

// Frames is the number of Tick calls.
func (c *Clock) Frames() uint64 { return c.frames }
