package state

import (
	"github.com/litescript/ls-orrery/internal/orbit"
)

// BodySnapshot is one body's state at snapshot time.
type BodySnapshot struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Parent     string     `json:"parent,omitempty"`
	OrbitAngle float64    `json:"orbit_angle"`
	SpinAngle  float64    `json:"spin_angle"`
	Position   [3]float32 `json:"position"`
}

// Snapshot is an immutable copy of the state for the HUD and export.
type Snapshot struct {
	Frame     uint64  `json:"frame"`
	Elapsed   float64 `json:"elapsed"`
	SimTime   float64 `json:"sim_time"`
	Paused    bool    `json:"paused"`
	TimeScale float64 `json:"time_scale"`
	FPS       float64 `json:"fps"`

	Mode          string     `json:"mode"`
	Focus         string     `json:"focus"`
	FocusIndex    int        `json:"focus_index"`
	FocusDistance float64    `json:"focus_distance"`
	OrbitDistance float64    `json:"orbit_distance"`
	Fov           float64    `json:"fov"`
	Eye           [3]float32 `json:"eye"`
	Target        [3]float32 `json:"target"`

	Orbits     bool `json:"orbits"`
	Stars      bool `json:"stars"`
	Fullscreen bool `json:"fullscreen"`
	Width      int  `json:"width"`
	Height     int  `json:"height"`

	Bodies []BodySnapshot `json:"bodies"`
	Events []Event        `json:"events,omitempty"`
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	w, h := s.Window.Size()
	snap := Snapshot{
		Frame:         s.Clock.Frames(),
		Elapsed:       s.Clock.Elapsed(),
		SimTime:       s.Clock.SimTime(),
		Paused:        s.Clock.Paused(),
		TimeScale:     s.Clock.TimeScale(),
		FPS:           s.fps,
		Mode:          s.Camera.Mode().String(),
		Focus:         s.Camera.FocusName(),
		FocusIndex:    s.Camera.FocusIndex(),
		FocusDistance: s.Camera.Focus().Distance,
		OrbitDistance: s.Camera.Orbit().Distance,
		Fov:           s.Camera.Fov(),
		Eye:           s.view.Eye,
		Target:        s.view.Target,
		Orbits:        s.Toggles.Orbits,
		Stars:         s.Toggles.Stars,
		Fullscreen:    s.Window.Fullscreen(),
		Width:         w,
		Height:        h,
		Events:        s.eventsOrdered(),
	}

	bodies := s.System.Bodies()
	snap.Bodies = make([]BodySnapshot, len(bodies))
	for i, b := range bodies {
		bs := BodySnapshot{
			Name:       b.Name,
			Kind:       b.Kind.String(),
			OrbitAngle: b.OrbitAngle,
			SpinAngle:  b.SpinAngle,
			Position:   orbit.WorldPosition(b),
		}
		if b.Parent != nil {
			bs.Parent = b.Parent.Name
		}
		snap.Bodies[i] = bs
	}
	return snap
}
