// Package state holds the orrery's simulation state: clock, bodies,
// camera, window and toggles, plus a log of the discrete changes the user
// made. It is owned by the frame loop and passed explicitly to every
// stage; nothing here is global.
package state

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/window"
)

// EventType represents the kind of state change.
type EventType string

const (
	EventModeChange  EventType = "MODE_CHANGE"
	EventFocusChange EventType = "FOCUS_CHANGE"
	EventOrbits      EventType = "ORBITS"
	EventStars       EventType = "STARS"
	EventPause       EventType = "PAUSE"
	EventTimeScale   EventType = "TIME_SCALE"
	EventFov         EventType = "FOV"
	EventFocusZoom   EventType = "FOCUS_ZOOM"
	EventFullscreen  EventType = "FULLSCREEN"
	EventQuit        EventType = "QUIT"
)

// Event is one applied command.
type Event struct {
	Type    EventType `json:"type"`
	Frame   uint64    `json:"frame"`
	Elapsed float64   `json:"elapsed"`
	Message string    `json:"message"`
}

// Config holds configuration for the state.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MaxEvents: 50}
}

// State is the aggregate mutated by the frame stages.
type State struct {
	Clock   *sim.Clock
	System  *orbit.System
	Camera  *camera.Controller
	Window  *window.Window
	Toggles render.Toggles

	quit bool
	view camera.View
	fps  float64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// New assembles a state around its parts. Both toggles start on.
func New(cfg Config, clock *sim.Clock, sys *orbit.System, cam *camera.Controller, win *window.Window) *State {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	s := &State{
		Clock:     clock,
		System:    sys,
		Camera:    cam,
		Window:    win,
		Toggles:   render.Toggles{Orbits: true, Stars: true},
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
	s.view = cam.View()
	return s
}

// Apply performs the frame's discrete commands in order.
func (s *State) Apply(cmds []input.Command) {
	for _, c := range cmds {
		s.apply(c)
	}
}

func (s *State) apply(c input.Command) {
	switch c.Kind {
	case input.KindSelectMode:
		if !c.Mode.Valid() || c.Mode == s.Camera.Mode() {
			return
		}
		s.Camera.Select(c.Mode)
		s.addEvent(EventModeChange, "Camera: %s", c.Mode)

	case input.KindFocusNext, input.KindFocusPrev:
		before := s.Camera.FocusIndex()
		if c.Kind == input.KindFocusNext {
			s.Camera.FocusNext()
		} else {
			s.Camera.FocusPrev()
		}
		if s.Camera.FocusIndex() != before {
			s.addEvent(EventFocusChange, "Focus: %s", s.Camera.FocusName())
		}

	case input.KindToggleOrbits:
		s.Toggles.Orbits = !s.Toggles.Orbits
		s.addEvent(EventOrbits, "Orbit lines: %s", onOff(s.Toggles.Orbits))

	case input.KindToggleStars:
		s.Toggles.Stars = !s.Toggles.Stars
		s.addEvent(EventStars, "Stars: %s", onOff(s.Toggles.Stars))

	case input.KindTogglePause:
		if s.Clock.TogglePause() {
			s.addEvent(EventPause, "Paused")
		} else {
			s.addEvent(EventPause, "Running")
		}

	case input.KindTimeScale:
		s.Clock.AdjustTimeScale(c.Delta)
		s.addEvent(EventTimeScale, "Time scale: %.2fx", s.Clock.TimeScale())

	case input.KindFov:
		s.Camera.AdjustFov(c.Delta)
		s.addEvent(EventFov, "FOV: %.0f°", s.Camera.Fov())

	case input.KindFocusZoom:
		if s.Camera.Mode() != camera.ModeFocus {
			return
		}
		s.Camera.AdjustFocusDistance(c.Delta)
		s.addEvent(EventFocusZoom, "Focus distance: %.1f", s.Camera.Focus().Distance)

	case input.KindFullscreen:
		on := s.Window.ToggleFullscreen()
		s.addEvent(EventFullscreen, "Fullscreen: %s", onOff(on))

	case input.KindQuit:
		if !s.quit {
			s.quit = true
			s.addEvent(EventQuit, "Quit")
		}
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// Advance ticks the clock by dt real seconds and moves every body by the
// resulting advance value, which it returns.
func (s *State) Advance(dt float64) float64 {
	adv := s.Clock.Tick(dt)
	s.System.Advance(adv)
	return adv
}

// UpdateCamera feeds the frame's camera input and stores the view.
func (s *State) UpdateCamera(in camera.Input) camera.View {
	s.view = s.Camera.Update(in)
	return s.view
}

// View returns the view of the most recent camera update.
func (s *State) View() camera.View {
	return s.view
}

// Viewport returns the drawable size.
func (s *State) Viewport() render.Viewport {
	w, h := s.Window.Size()
	return render.Viewport{Width: w, Height: h}
}

// Quit reports whether a quit command has been applied.
func (s *State) Quit() bool {
	return s.quit
}

// SetFPS records the measured frame rate for display.
func (s *State) SetFPS(fps float64) {
	s.fps = fps
}

// FPS returns the last measured frame rate.
func (s *State) FPS() float64 {
	return s.fps
}

// addEvent adds an event to the ring buffer.
func (s *State) addEvent(t EventType, format string, args ...interface{}) {
	e := Event{
		Type:    t,
		Frame:   s.Clock.Frames(),
		Elapsed: s.Clock.Elapsed(),
		Message: fmt.Sprintf(format, args...),
	}
	if len(s.events) < s.maxEvents {
		s.events = append(s.events, e)
	} else {
		s.events[s.eventWriteAt] = e
		s.eventWriteAt = (s.eventWriteAt + 1) % s.maxEvents
	}
}

// eventsOrdered returns events in chronological order.
func (s *State) eventsOrdered() []Event {
	if len(s.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(s.events) < s.maxEvents {
		result := make([]Event, len(s.events))
		copy(result, s.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, s.maxEvents)
	for i := 0; i < s.maxEvents; i++ {
		result[i] = s.events[(s.eventWriteAt+i)%s.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (s *State) RecentEvents(n int) []Event {
	all := s.eventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
