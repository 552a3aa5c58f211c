// Package camera implements the three-mode camera: Orbit around the star,
// Free flight, and Focus on a selected body.
//
// Each mode is its own variant type holding only the fields that mode
// needs. The Controller keeps one value of each so a mode's settings
// survive while another mode is active, and dispatches every frame's input
// to the active variant.
package camera

import (
	"fmt"
	"strings"
)

// Mode identifies a camera variant.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeFree
	ModeFocus
)

// Modes lists the valid modes in selection order.
var Modes = []Mode{ModeOrbit, ModeFree, ModeFocus}

func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "Orbit"
	case ModeFree:
		return "Free"
	case ModeFocus:
		return "Focus"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m names one of the three variants.
func (m Mode) Valid() bool {
	return m >= ModeOrbit && m <= ModeFocus
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "orbit", "1":
		return ModeOrbit, nil
	case "free", "2":
		return ModeFree, nil
	case "focus", "3":
		return ModeFocus, nil
	}
	return 0, fmt.Errorf("unknown camera mode %q", s)
}

// MoveKeys is the set of movement keys held this frame.
type MoveKeys uint8

const (
	MoveForward MoveKeys = 1 << iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// Has reports whether every key in k is held.
func (m MoveKeys) Has(k MoveKeys) bool {
	return m&k == k
}
