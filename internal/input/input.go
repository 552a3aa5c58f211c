// Package input turns terminal key and mouse events into orrery commands
// and collects them into one batch per frame.
package input

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/camera"
)

// Kind identifies a discrete command.
type Kind int

const (
	KindSelectMode Kind = iota + 1
	KindFocusNext
	KindFocusPrev
	KindToggleOrbits
	KindToggleStars
	KindTogglePause
	KindTimeScale
	KindFov
	KindFocusZoom
	KindFullscreen
	KindQuit
)

func (k Kind) String() string {
	switch k {
	case KindSelectMode:
		return "select-mode"
	case KindFocusNext:
		return "focus-next"
	case KindFocusPrev:
		return "focus-prev"
	case KindToggleOrbits:
		return "toggle-orbits"
	case KindToggleStars:
		return "toggle-stars"
	case KindTogglePause:
		return "toggle-pause"
	case KindTimeScale:
		return "time-scale"
	case KindFov:
		return "fov"
	case KindFocusZoom:
		return "focus-zoom"
	case KindFullscreen:
		return "fullscreen"
	case KindQuit:
		return "quit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is one discrete mutation of the simulation state. Mode is set
// for KindSelectMode, Delta for the adjust kinds.
type Command struct {
	Kind  Kind
	Mode  camera.Mode
	Delta float64
}

func (c Command) String() string {
	switch c.Kind {
	case KindSelectMode:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Mode)
	case KindTimeScale, KindFov, KindFocusZoom:
		return fmt.Sprintf("%s(%+g)", c.Kind, c.Delta)
	default:
		return c.Kind.String()
	}
}

// Step sizes of the adjust commands.
const (
	TimeScaleStep = 0.25
	FovStep       = 1.0
	FocusZoomStep = 2.0
)

var keyCommands = map[string]Command{
	"1":         {Kind: KindSelectMode, Mode: camera.ModeOrbit},
	"2":         {Kind: KindSelectMode, Mode: camera.ModeFree},
	"3":         {Kind: KindSelectMode, Mode: camera.ModeFocus},
	"n":         {Kind: KindFocusNext},
	"p":         {Kind: KindFocusPrev},
	"h":         {Kind: KindToggleOrbits},
	"b":         {Kind: KindToggleStars},
	" ":         {Kind: KindTogglePause},
	"space":     {Kind: KindTogglePause},
	"[":         {Kind: KindTimeScale, Delta: -TimeScaleStep},
	"]":         {Kind: KindTimeScale, Delta: TimeScaleStep},
	"-":         {Kind: KindFov, Delta: -FovStep},
	"=":         {Kind: KindFov, Delta: FovStep},
	"+":         {Kind: KindFov, Delta: FovStep},
	"z":         {Kind: KindFocusZoom, Delta: -FocusZoomStep},
	"x":         {Kind: KindFocusZoom, Delta: FocusZoomStep},
	"f11":       {Kind: KindFullscreen},
	"alt+enter": {Kind: KindFullscreen},
	"f":         {Kind: KindFullscreen},
	"esc":       {Kind: KindQuit},
	"ctrl+c":    {Kind: KindQuit},
}

// KeyCommand maps a key name, as reported by bubbletea's KeyMsg.String,
// to a command.
func KeyCommand(key string) (Command, bool) {
	c, ok := keyCommands[key]
	return c, ok
}

var moveKeys = map[string]camera.MoveKeys{
	"w": camera.MoveForward,
	"s": camera.MoveBack,
	"a": camera.MoveLeft,
	"d": camera.MoveRight,
	"q": camera.MoveUp,
	"e": camera.MoveDown,
}

// MoveKeyFor maps a key name to a movement key. Free flies with all six;
// Orbit and Focus turn with the left/right and up/down pairs.
func MoveKeyFor(key string) (camera.MoveKeys, bool) {
	k, ok := moveKeys[key]
	return k, ok
}

// Frame is everything routed to one frame.
type Frame struct {
	Commands []Command
	DragX    float64
	DragY    float64
	Scroll   float64
	Move     camera.MoveKeys
	LookHeld bool
}

// CameraInput returns the camera part of the frame.
func (f Frame) CameraInput(dt float64) camera.Input {
	return camera.Input{
		DragX:    f.DragX,
		DragY:    f.DragY,
		Scroll:   f.Scroll,
		LookHeld: f.LookHeld,
		Move:     f.Move,
		Dt:       dt,
	}
}

// Queue collects input between frames. It is owned by the frame loop's
// goroutine and is not safe for concurrent use.
type Queue struct {
	commands []Command
	dragX    float64
	dragY    float64
	scroll   float64
	move     camera.MoveKeys
	look     bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push records a command. A later command of the same kind replaces an
// earlier one from the same frame.
func (q *Queue) Push(c Command) {
	for i, prev := range q.commands {
		if prev.Kind == c.Kind {
			q.commands = append(q.commands[:i], q.commands[i+1:]...)
			break
		}
	}
	q.commands = append(q.commands, c)
}

// Key routes a key name. It reports whether the key was bound.
func (q *Queue) Key(key string) bool {
	if c, ok := KeyCommand(key); ok {
		q.Push(c)
		return true
	}
	if k, ok := MoveKeyFor(key); ok {
		q.Hold(k)
		return true
	}
	return false
}

// Drag adds pointer motion. It is dropped unless the look button is held.
func (q *Queue) Drag(dx, dy float64) {
	if !q.look {
		return
	}
	q.dragX += dx
	q.dragY += dy
}

// Scroll adds wheel notches, positive away from the user.
func (q *Queue) Scroll(dy float64) {
	q.scroll += dy
}

// Hold marks a movement key as held for the current frame.
func (q *Queue) Hold(k camera.MoveKeys) {
	q.move |= k
}

// SetLook records the look button state. It persists across frames.
func (q *Queue) SetLook(held bool) {
	q.look = held
}

// LookHeld reports the look button state.
func (q *Queue) LookHeld() bool {
	return q.look
}

// Drain returns the frame's input and resets the per-frame fields.
func (q *Queue) Drain() Frame {
	f := Frame{
		Commands: q.commands,
		DragX:    q.dragX,
		DragY:    q.dragY,
		Scroll:   q.scroll,
		Move:     q.move,
		LookHeld: q.look,
	}
	q.commands = nil
	q.dragX, q.dragY, q.scroll = 0, 0, 0
	q.move = 0
	return f
}
