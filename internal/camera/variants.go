package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles the world origin.
type Orbit struct {
	Yaw, Pitch float64
	Distance   float64
}

func (*Orbit) Mode() Mode { return ModeOrbit }

func (o *Orbit) update(in Input, e env) View {
	dYaw, dPitch := nudge(in.Move, e.cfg)
	o.Yaw += in.DragX*e.cfg.OrbitSensitivity + dYaw
	o.Pitch += dPitch - in.DragY*e.cfg.OrbitSensitivity
	o.Distance -= in.Scroll * e.cfg.ScrollStep
	o.clamp(e.cfg)

	return View{
		Mode:   ModeOrbit,
		Eye:    spherical(o.Yaw, o.Pitch, o.Distance),
		Target: mgl32.Vec3{},
		Up:     worldUp,
	}
}

func (o *Orbit) clamp(cfg *Config) {
	o.Pitch = clamp(o.Pitch, -cfg.OrbitPitchLimit, cfg.OrbitPitchLimit)
	o.Distance = clamp(o.Distance, cfg.MinDistance, cfg.MaxDistance)
}

// nudge turns the Orbit and Focus cameras from the keyboard: left/right
// steer yaw and up/down tilt pitch by a fixed step per frame.
func nudge(m MoveKeys, cfg *Config) (dYaw, dPitch float64) {
	if m.Has(MoveLeft) {
		dYaw -= cfg.NudgeYaw
	}
	if m.Has(MoveRight) {
		dYaw += cfg.NudgeYaw
	}
	if m.Has(MoveUp) {
		dPitch += cfg.NudgePitch
	}
	if m.Has(MoveDown) {
		dPitch -= cfg.NudgePitch
	}
	return dYaw, dPitch
}

// Free flies anywhere. Its orientation is independent of Orbit and Focus.
type Free struct {
	Position   mgl32.Vec3
	Yaw, Pitch float64
}

func (*Free) Mode() Mode { return ModeFree }

func (f *Free) update(in Input, e env) View {
	f.Yaw += in.DragX * e.cfg.FreeSensitivity
	f.Pitch -= in.DragY * e.cfg.FreeSensitivity
	f.Pitch = clamp(f.Pitch, -e.cfg.FreePitchLimit, e.cfg.FreePitchLimit)

	// Scroll zooms the lens here instead of moving the camera.
	if in.Scroll != 0 {
		e.lens.Adjust(-in.Scroll)
	}

	speed := e.cfg.FreeSpeed
	if in.LookHeld {
		speed = e.cfg.FreeFastSpeed
	}
	dt := in.Dt
	if !(dt > 0) {
		dt = 0
	}
	step := float32(speed * dt)

	fwd, right := f.basis()
	if in.Move.Has(MoveForward) {
		f.Position = f.Position.Add(fwd.Mul(step))
	}
	if in.Move.Has(MoveBack) {
		f.Position = f.Position.Sub(fwd.Mul(step))
	}
	if in.Move.Has(MoveLeft) {
		f.Position = f.Position.Sub(right.Mul(step))
	}
	if in.Move.Has(MoveRight) {
		f.Position = f.Position.Add(right.Mul(step))
	}
	if in.Move.Has(MoveUp) {
		f.Position = f.Position.Add(worldUp.Mul(step))
	}
	if in.Move.Has(MoveDown) {
		f.Position = f.Position.Sub(worldUp.Mul(step))
	}

	return View{
		Mode:   ModeFree,
		Eye:    f.Position,
		Target: f.Position.Add(f.Direction()),
		Up:     worldUp,
	}
}

// basis returns the horizontal forward and right vectors for the current
// yaw. Pitch only affects where the camera looks, not where it walks.
func (f *Free) basis() (fwd, right mgl32.Vec3) {
	y := f.Yaw * math.Pi / 180
	fwd = mgl32.Vec3{float32(math.Sin(y)), 0, float32(-math.Cos(y))}
	right = fwd.Cross(worldUp).Normalize()
	return fwd, right
}

// Direction is the unit look direction.
func (f *Free) Direction() mgl32.Vec3 {
	y := f.Yaw * math.Pi / 180
	p := f.Pitch * math.Pi / 180
	return mgl32.Vec3{
		float32(math.Cos(p) * math.Sin(y)),
		float32(math.Sin(p)),
		float32(-math.Cos(p) * math.Cos(y)),
	}
}

// Focus circles one body from the focus list.
type Focus struct {
	Index      int
	Distance   float64
	Yaw, Pitch float64
}

func (*Focus) Mode() Mode { return ModeFocus }

func (f *Focus) update(in Input, e env) View {
	dYaw, dPitch := nudge(in.Move, e.cfg)
	f.Yaw += in.DragX*e.cfg.OrbitSensitivity + dYaw
	f.Pitch += dPitch - in.DragY*e.cfg.OrbitSensitivity
	f.Distance -= in.Scroll * e.cfg.ScrollStep
	f.clamp(e.cfg)

	var target mgl32.Vec3
	var name string
	if e.targets != nil && e.targets.FocusCount() > 0 {
		f.Index = wrap(f.Index, e.targets.FocusCount())
		target = e.targets.FocusPosition(f.Index)
		name = e.targets.FocusName(f.Index)
	}

	return View{
		Mode:      ModeFocus,
		Eye:       target.Add(spherical(f.Yaw, f.Pitch, f.Distance)),
		Target:    target,
		Up:        worldUp,
		FocusName: name,
	}
}

func (f *Focus) clamp(cfg *Config) {
	f.Pitch = clamp(f.Pitch, -cfg.OrbitPitchLimit, cfg.OrbitPitchLimit)
	f.Distance = clamp(f.Distance, cfg.MinFocusDistance, cfg.MaxFocusDistance)
}

// wrap reduces i into [0, n) for either sign.
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
