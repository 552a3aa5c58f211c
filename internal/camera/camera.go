package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Config holds the camera limits and defaults. Angles are in degrees,
// sensitivities in degrees per pixel of drag.
type Config struct {
	OrbitSensitivity float64
	FreeSensitivity  float64

	OrbitPitchLimit float64
	FreePitchLimit  float64

	MinDistance      float64
	MaxDistance      float64
	MinFocusDistance float64
	MaxFocusDistance float64
	ScrollStep       float64 // distance units per scroll notch

	// Keyboard turn per frame in Orbit and Focus.
	NudgeYaw   float64
	NudgePitch float64

	DefaultFov float64
	MinFov     float64
	MaxFov     float64

	FreeSpeed     float64 // units per second
	FreeFastSpeed float64 // while the look button is held

	OrbitYaw      float64
	OrbitPitch    float64
	OrbitDistance float64
	FreePosition  mgl32.Vec3
	FocusDistance float64

	Near float32
	Far  float32
}

// DefaultConfig returns the stock camera tuning.
func DefaultConfig() Config {
	return Config{
		OrbitSensitivity: 0.005 * 180 / math.Pi,
		FreeSensitivity:  0.002 * 180 / math.Pi,
		OrbitPitchLimit:  89,
		FreePitchLimit:   85,
		MinDistance:      5,
		MaxDistance:      400,
		MinFocusDistance: 3,
		MaxFocusDistance: 400,
		ScrollStep:       2,
		NudgeYaw:         0.04 * 180 / math.Pi,
		NudgePitch:       0.03 * 180 / math.Pi,
		DefaultFov:       45,
		MinFov:           20,
		MaxFov:           90,
		FreeSpeed:        8,
		FreeFastSpeed:    25,
		OrbitYaw:         0,
		OrbitPitch:       15,
		OrbitDistance:    45,
		FreePosition:     mgl32.Vec3{0, 10, 60},
		FocusDistance:    12,
		Near:             0.1,
		Far:              1000,
	}
}

// Input is the routed input of one frame.
type Input struct {
	DragX, DragY float64 // pixels moved while the look button was held
	Scroll       float64 // notches, positive away from the user
	LookHeld     bool
	Move         MoveKeys
	Dt           float64 // real seconds since the previous frame
}

// View describes where the camera is for one frame.
type View struct {
	Mode      Mode
	Eye       mgl32.Vec3
	Target    mgl32.Vec3
	Up        mgl32.Vec3
	FovDeg    float64
	Near, Far float32
	FocusName string
}

// Matrix returns the look-at view matrix.
func (v View) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(v.Eye, v.Target, v.Up)
}

// Projection returns the perspective projection for the given aspect ratio.
func (v View) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(float32(v.FovDeg)), aspect, v.Near, v.Far)
}

// Targets supplies focus positions. It is implemented by the orbital
// system.
type Targets interface {
	FocusCount() int
	FocusPosition(i int) mgl32.Vec3
	FocusName(i int) string
}

// Lens is the field of view shared by every mode.
type Lens struct {
	fov, min, max float64
}

// Adjust changes the field of view by delta degrees, clamped.
func (l *Lens) Adjust(delta float64) {
	l.Set(l.fov + delta)
}

// Set assigns the field of view, clamped.
func (l *Lens) Set(deg float64) {
	l.fov = clamp(deg, l.min, l.max)
}

// Fov returns the field of view in degrees.
func (l *Lens) Fov() float64 {
	return l.fov
}

// env is what a variant may touch besides its own fields.
type env struct {
	cfg     *Config
	lens    *Lens
	targets Targets
}

// State is one camera variant.
type State interface {
	Mode() Mode
	update(in Input, e env) View
}

var worldUp = mgl32.Vec3{0, 1, 0}

// spherical returns the offset of a camera at (yaw, pitch, dist) around a
// target, in degrees.
func spherical(yaw, pitch, dist float64) mgl32.Vec3 {
	y := yaw * math.Pi / 180
	p := pitch * math.Pi / 180
	cp, sp := math.Cos(p), math.Sin(p)
	return mgl32.Vec3{
		float32(dist * cp * math.Sin(y)),
		float32(dist * sp),
		float32(dist * cp * math.Cos(y)),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
