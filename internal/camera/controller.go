package camera

// Controller owns one value of each variant and the shared lens. Exactly
// one variant is active at a time.
type Controller struct {
	cfg     Config
	targets Targets
	lens    Lens

	orbit Orbit
	free  Free
	focus Focus

	active State
	// lastOrbital is whichever of Orbit/Focus was active most recently.
	// The two share an orientation convention, so entering one copies the
	// other's yaw and pitch.
	lastOrbital Mode
}

// New returns a controller in Orbit mode with the configured defaults.
func New(cfg Config, targets Targets) *Controller {
	c := &Controller{
		cfg:     cfg,
		targets: targets,
		lens:    Lens{min: cfg.MinFov, max: cfg.MaxFov},
		orbit: Orbit{
			Yaw:      cfg.OrbitYaw,
			Pitch:    cfg.OrbitPitch,
			Distance: cfg.OrbitDistance,
		},
		free: Free{Position: cfg.FreePosition},
		focus: Focus{
			Distance: cfg.FocusDistance,
			Yaw:      cfg.OrbitYaw,
			Pitch:    cfg.OrbitPitch,
		},
		lastOrbital: ModeOrbit,
	}
	c.lens.Set(cfg.DefaultFov)
	c.orbit.clamp(&c.cfg)
	c.focus.clamp(&c.cfg)
	c.active = &c.orbit
	return c
}

// Select makes m the active mode. Any valid mode may follow any other;
// invalid values are ignored.
func (c *Controller) Select(m Mode) {
	if !m.Valid() {
		return
	}

	switch m {
	case ModeOrbit:
		if c.lastOrbital == ModeFocus {
			c.orbit.Yaw, c.orbit.Pitch = c.focus.Yaw, c.focus.Pitch
			c.orbit.clamp(&c.cfg)
		}
		c.lastOrbital = ModeOrbit
		c.active = &c.orbit
	case ModeFocus:
		if c.lastOrbital == ModeOrbit {
			c.focus.Yaw, c.focus.Pitch = c.orbit.Yaw, c.orbit.Pitch
			c.focus.clamp(&c.cfg)
		}
		c.lastOrbital = ModeFocus
		c.active = &c.focus
	case ModeFree:
		c.active = &c.free
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.active.Mode()
}

// Update feeds one frame of input to the active variant and returns the
// resulting view.
func (c *Controller) Update(in Input) View {
	v := c.active.update(in, env{cfg: &c.cfg, lens: &c.lens, targets: c.targets})
	v.FovDeg = c.lens.Fov()
	v.Near, v.Far = c.cfg.Near, c.cfg.Far
	return v
}

// View returns the current view without applying any input.
func (c *Controller) View() View {
	return c.Update(Input{})
}

// AdjustFov changes the field of view by delta degrees in any mode.
func (c *Controller) AdjustFov(delta float64) {
	c.lens.Adjust(delta)
}

// Fov returns the field of view in degrees.
func (c *Controller) Fov() float64 {
	return c.lens.Fov()
}

// FocusNext selects the next focus target, wrapping at the end.
func (c *Controller) FocusNext() {
	c.focus.Index = wrap(c.focus.Index+1, c.focusCount())
}

// FocusPrev selects the previous focus target, wrapping at the start.
func (c *Controller) FocusPrev() {
	c.focus.Index = wrap(c.focus.Index-1, c.focusCount())
}

// SetFocus selects focus target i, wrapped into range.
func (c *Controller) SetFocus(i int) {
	c.focus.Index = wrap(i, c.focusCount())
}

// FocusIndex returns the selected focus target.
func (c *Controller) FocusIndex() int {
	return c.focus.Index
}

// FocusName returns the name of the selected focus target.
func (c *Controller) FocusName() string {
	if c.targets == nil || c.targets.FocusCount() == 0 {
		return ""
	}
	return c.targets.FocusName(c.focus.Index)
}

// AdjustFocusDistance moves the Focus camera in or out. It only has an
// effect while Focus is active.
func (c *Controller) AdjustFocusDistance(delta float64) {
	if c.Mode() != ModeFocus {
		return
	}
	c.focus.Distance += delta
	c.focus.clamp(&c.cfg)
}

// Orbit returns a copy of the stored Orbit variant.
func (c *Controller) Orbit() Orbit { return c.orbit }

// Free returns a copy of the stored Free variant.
func (c *Controller) Free() Free { return c.free }

// Focus returns a copy of the stored Focus variant.
func (c *Controller) Focus() Focus { return c.focus }

func (c *Controller) focusCount() int {
	if c.targets == nil {
		return 0
	}
	return c.targets.FocusCount()
}
