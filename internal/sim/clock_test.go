package sim

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/orbit"
)

func TestNewClock(t *testing.T) {
	c := NewClock()
	if c.Paused() {
		t.Error("new clock should be running")
	}
	if c.TimeScale() != 1 {
		t.Errorf("TimeScale = %v, want 1", c.TimeScale())
	}
}

func TestTick(t *testing.T) {
	tests := []struct {
		name      string
		paused    bool
		timeScale float64
		dt        float64
		want      float64
	}{
		{"running", false, 1, 0.016, 0.016},
		{"scaled", false, 2.5, 0.1, 0.25},
		{"zero scale", false, 0, 0.1, 0},
		{"paused", true, 3, 0.1, 0},
		{"negative dt", false, 1, -1, 0},
		{"NaN dt", false, 1, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock()
			c.SetTimeScale(tt.timeScale)
			c.SetPaused(tt.paused)

			if got := c.Tick(tt.dt); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Tick(%v) = %v, want %v", tt.dt, got, tt.want)
			}
		})
	}
}

func TestElapsedIsMonotonic(t *testing.T) {
	c := NewClock()
	c.Tick(0.5)
	c.TogglePause()
	c.Tick(0.25)
	c.Tick(-3)
	c.TogglePause()
	c.Tick(math.NaN())

	if c.Elapsed() != 0.75 {
		t.Errorf("Elapsed = %v, want 0.75 (counts paused time, ignores negative and NaN dt)", c.Elapsed())
	}
	if c.SimTime() != 0.5 {
		t.Errorf("SimTime = %v, want 0.5", c.SimTime())
	}
	if c.Frames() != 4 {
		t.Errorf("Frames = %d, want 4", c.Frames())
	}
}

func TestTimeScaleClamp(t *testing.T) {
	c := NewClock()

	c.SetTimeScale(-2)
	if c.TimeScale() != 0 {
		t.Errorf("SetTimeScale(-2) = %v, want 0", c.TimeScale())
	}

	c.SetTimeScale(0.25)
	for i := 0; i < 5; i++ {
		c.AdjustTimeScale(-0.25)
	}
	if c.TimeScale() != 0 {
		t.Errorf("after repeated decrements = %v, want floor 0", c.TimeScale())
	}

	c.AdjustTimeScale(0.25)
	c.AdjustTimeScale(0.25)
	if c.TimeScale() != 0.5 {
		t.Errorf("after two increments = %v, want 0.5", c.TimeScale())
	}

	c.SetTimeScale(1e6)
	if c.TimeScale() != 1e6 {
		t.Errorf("time scale should be unbounded above, got %v", c.TimeScale())
	}

	c.SetTimeScale(math.NaN())
	if c.TimeScale() != 0 {
		t.Errorf("NaN time scale = %v, want 0", c.TimeScale())
	}
}

func TestTogglePause(t *testing.T) {
	c := NewClock()
	if !c.TogglePause() {
		t.Error("first toggle should pause")
	}
	if c.TogglePause() {
		t.Error("second toggle should resume")
	}
}

func TestAdvanceDrivesBodies(t *testing.T) {
	tests := []struct {
		paused    bool
		timeScale float64
		dt        float64
	}{
		{false, 1, 0.016},
		{false, 2, 0.5},
		{true, 1, 0.5},
		{false, 0.25, 0},
	}

	for _, tt := range tests {
		c := NewClock()
		c.SetTimeScale(tt.timeScale)
		c.SetPaused(tt.paused)

		b := &orbit.Body{OrbitSpeed: 30, SpinSpeed: 50, OrbitAngle: 12, SpinAngle: 7}
		b.Advance(c.Tick(tt.dt))

		wantOrbit, wantSpin := 12.0, 7.0
		if !tt.paused {
			wantOrbit += 30 * tt.dt * tt.timeScale
			wantSpin += 50 * tt.dt * tt.timeScale
		}
		if math.Abs(b.OrbitAngle-wantOrbit) > 1e-9 || math.Abs(b.SpinAngle-wantSpin) > 1e-9 {
			t.Errorf("paused=%v scale=%v dt=%v: angles %v/%v, want %v/%v",
				tt.paused, tt.timeScale, tt.dt, b.OrbitAngle, b.SpinAngle, wantOrbit, wantSpin)
		}
	}
}
