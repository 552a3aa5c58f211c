// Package render builds the per-frame draw list of the orrery: which
// meshes are drawn, in what order, with what matrices, material and
// graphics state. Executing the list is left to an Executor.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/mesh"
	"github.com/litescript/ls-orrery/internal/texture"
)

// Pass groups draw operations. Passes are emitted in declaration order.
type Pass int

const (
	PassSky Pass = iota
	PassBody
	PassRing
	PassOrbit
	PassHUD
)

func (p Pass) String() string {
	switch p {
	case PassSky:
		return "sky"
	case PassBody:
		return "body"
	case PassRing:
		return "ring"
	case PassOrbit:
		return "orbit"
	case PassHUD:
		return "hud"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	default:
		return fmt.Sprintf("CullMode(%d)", int(c))
	}
}

// State is the fixed-function state a draw requires. Executors apply it
// per op, so nothing leaks from one op to the next.
type State struct {
	DepthTest  bool
	DepthWrite bool
	Cull       CullMode
}

// DefaultState is depth-tested, depth-writing, back-face culled.
var DefaultState = State{DepthTest: true, DepthWrite: true, Cull: CullBack}

// Program selects the shading path of a draw.
type Program int

const (
	// ProgramLit shades triangles with Material.Shade.
	ProgramLit Program = iota
	// ProgramFlat draws lines in DrawOp.Color through DrawOp.MVP.
	ProgramFlat
)

func (p Program) String() string {
	if p == ProgramFlat {
		return "flat"
	}
	return "lit"
}

// DrawOp is one draw call.
type DrawOp struct {
	Pass    Pass
	Label   string
	Program Program

	Mesh    *mesh.Mesh
	Handle  MeshHandle
	Texture texture.Handle

	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	MVP        mgl32.Mat4 // Projection * View * Model
	Normal     mgl32.Mat3 // inverse transpose of Model's upper 3x3

	Material Material
	Light    Lighting
	Color    mgl32.Vec3 // ProgramFlat only

	State State
}

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width, Height int
}

// Aspect returns width/height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Toggles are the user switches that gate optional passes.
type Toggles struct {
	Orbits bool
	Stars  bool
}

// Frame is the complete draw list of one frame.
type Frame struct {
	Viewport Viewport
	Clear    mgl32.Vec3
	View     camera.View
	Ops      []DrawOp
}

// Labels returns the op labels in draw order.
func (f Frame) Labels() []string {
	labels := make([]string, len(f.Ops))
	for i, op := range f.Ops {
		labels[i] = op.Label
	}
	return labels
}

// Count returns the number of ops in pass p.
func (f Frame) Count(p Pass) int {
	n := 0
	for _, op := range f.Ops {
		if op.Pass == p {
			n++
		}
	}
	return n
}

// Executor carries out a frame's draw list.
type Executor interface {
	Execute(f Frame) error
}

// Recorder is an Executor that keeps the most recent frame, for tests that
// inspect the draw list without rasterizing it.
type Recorder struct {
	Last   Frame
	Frames int
	Ops    int
}

// Execute records f.
func (r *Recorder) Execute(f Frame) error {
	r.Last = f
	r.Frames++
	r.Ops += len(f.Ops)
	return nil
}
