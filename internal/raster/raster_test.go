package raster

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/mesh"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/texture"
)

var (
	red   = mgl32.Vec3{1, 0, 0}
	green = mgl32.Vec3{0, 1, 0}
	blue  = mgl32.Vec3{0, 0, 1}
)

// triangle is counter-clockwise in NDC at depth z.
func triangle(z float32) *mesh.Mesh {
	return &mesh.Mesh{
		Name: "tri",
		Vertices: []mesh.Vertex{
			{Pos: mgl32.Vec3{-0.8, -0.8, z}, Normal: mgl32.Vec3{0, 0, 1}},
			{Pos: mgl32.Vec3{0.8, -0.8, z}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{1, 0}},
			{Pos: mgl32.Vec3{0, 0.8, z}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0.5, 1}},
		},
		Indices:   []uint32{0, 1, 2},
		Primitive: mesh.Triangles,
	}
}

func reversed(m *mesh.Mesh) *mesh.Mesh {
	out := *m
	out.Indices = []uint32{0, 2, 1}
	return &out
}

// flatOp draws m unlit in col: no light, full emission.
func flatOp(m *mesh.Mesh, col mgl32.Vec3, st render.State) render.DrawOp {
	return render.DrawOp{
		Label:    m.Name,
		Mesh:     m,
		Model:    mgl32.Ident4(),
		MVP:      mgl32.Ident4(),
		Normal:   mgl32.Ident3(),
		Material: render.Material{BaseColor: col, Emissive: 1},
		State:    st,
	}
}

func frame(w, h int, ops ...render.DrawOp) render.Frame {
	return render.Frame{Viewport: render.Viewport{Width: w, Height: h}, Ops: ops}
}

func TestFillTriangle(t *testing.T) {
	c := New(10, 10, nil)
	if err := c.Execute(frame(10, 10, flatOp(triangle(0), red, render.DefaultState))); err != nil {
		t.Fatal(err)
	}

	if got := c.At(5, 5); got != red {
		t.Errorf("expected red at the centre, got %v", got)
	}
	if got := c.At(0, 0); got != (mgl32.Vec3{}) {
		t.Errorf("expected clear colour in the corner, got %v", got)
	}
	if c.Depth(5, 5) != 0 {
		t.Errorf("expected depth 0, got %v", c.Depth(5, 5))
	}
	if s := c.Stats(); s.Triangles != 1 || s.Fragments == 0 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestCulling(t *testing.T) {
	tests := []struct {
		name  string
		mesh  *mesh.Mesh
		cull  render.CullMode
		drawn bool
	}{
		{"front, cull back", triangle(0), render.CullBack, true},
		{"back, cull back", reversed(triangle(0)), render.CullBack, false},
		{"front, cull front", triangle(0), render.CullFront, false},
		{"back, cull front", reversed(triangle(0)), render.CullFront, true},
		{"back, cull none", reversed(triangle(0)), render.CullNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(10, 10, nil)
			st := render.State{DepthTest: true, DepthWrite: true, Cull: tt.cull}
			_ = c.Execute(frame(10, 10, flatOp(tt.mesh, red, st)))
			if got := c.At(5, 5) == red; got != tt.drawn {
				t.Errorf("expected drawn=%v, got %v", tt.drawn, got)
			}
		})
	}
}

func TestDepth(t *testing.T) {
	near, far := triangle(-0.5), triangle(0.5)

	tests := []struct {
		name string
		ops  []render.DrawOp
		want mgl32.Vec3
	}{
		{"near last", []render.DrawOp{flatOp(far, green, render.DefaultState), flatOp(near, red, render.DefaultState)}, red},
		{"near first", []render.DrawOp{flatOp(near, red, render.DefaultState), flatOp(far, green, render.DefaultState)}, red},
		{
			"no depth test",
			[]render.DrawOp{
				flatOp(near, red, render.DefaultState),
				flatOp(far, green, render.State{DepthTest: false, DepthWrite: true, Cull: render.CullBack}),
			},
			green,
		},
		{
			"no depth write",
			[]render.DrawOp{
				flatOp(near, red, render.State{DepthTest: true, DepthWrite: false, Cull: render.CullBack}),
				flatOp(far, green, render.DefaultState),
			},
			green,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(10, 10, nil)
			_ = c.Execute(frame(10, 10, tt.ops...))
			if got := c.At(5, 5); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNearPlaneRejects(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	op := flatOp(triangle(1), red, render.State{DepthTest: true, DepthWrite: true, Cull: render.CullNone})
	op.MVP = proj

	c := New(10, 10, nil)
	_ = c.Execute(frame(10, 10, op))
	if s := c.Stats(); s.Clipped != 1 || s.Fragments != 0 {
		t.Errorf("expected the triangle behind the camera to be rejected, got %+v", s)
	}
}

type solidSampler struct{ c mgl32.Vec3 }

func (s solidSampler) Sample(h texture.Handle, u, v float32) (mgl32.Vec3, bool) {
	if h == texture.Placeholder {
		return mgl32.Vec3{1, 1, 1}, false
	}
	return s.c, true
}

func TestTextureSampling(t *testing.T) {
	op := flatOp(triangle(0), red, render.DefaultState)
	op.Material.UseTexture = true
	op.Texture = 2

	c := New(10, 10, solidSampler{blue})
	_ = c.Execute(frame(10, 10, op))
	if got := c.At(5, 5); got != blue {
		t.Errorf("expected the texel, got %v", got)
	}

	// A placeholder handle falls back to the base colour.
	op.Texture = texture.Placeholder
	_ = c.Execute(frame(10, 10, op))
	if got := c.At(5, 5); got != red {
		t.Errorf("expected the base colour, got %v", got)
	}
}

func TestLines(t *testing.T) {
	line := &mesh.Mesh{
		Name:      "line",
		Vertices:  []mesh.Vertex{{Pos: mgl32.Vec3{-1, 0, 0}}, {Pos: mgl32.Vec3{1, 0, 0}}},
		Indices:   []uint32{0, 1},
		Primitive: mesh.Lines,
	}
	op := render.DrawOp{
		Label:   "line",
		Program: render.ProgramFlat,
		Mesh:    line,
		MVP:     mgl32.Ident4(),
		Color:   green,
		State:   render.State{DepthTest: false, Cull: render.CullNone},
	}

	c := New(10, 10, nil)
	_ = c.Execute(frame(10, 10, op))
	for x := 0; x < 10; x++ {
		if c.At(x, 5) != green {
			t.Errorf("expected pixel (%d,5) green, got %v", x, c.At(x, 5))
		}
	}
	if c.At(5, 2) == green {
		t.Error("line leaked off its row")
	}
	if c.Stats().Lines != 1 {
		t.Errorf("expected 1 line, got %d", c.Stats().Lines)
	}
}

func TestLineDepthTest(t *testing.T) {
	line := &mesh.Mesh{
		Vertices:  []mesh.Vertex{{Pos: mgl32.Vec3{-1, 0, 0.9}}, {Pos: mgl32.Vec3{1, 0, 0.9}}},
		Indices:   []uint32{0, 1},
		Primitive: mesh.Lines,
	}
	op := render.DrawOp{Mesh: line, MVP: mgl32.Ident4(), Color: green, State: render.DefaultState}

	c := New(10, 10, nil)
	_ = c.Execute(frame(10, 10, flatOp(triangle(0), red, render.DefaultState), op))
	if c.At(5, 5) != red {
		t.Error("expected the line to be hidden behind the triangle")
	}
	if c.At(0, 5) != green {
		t.Error("expected the line visible outside the triangle")
	}
}

func TestMissingMeshIsReported(t *testing.T) {
	c := New(10, 10, nil)
	err := c.Execute(frame(10, 10, render.DrawOp{Label: "ghost"}, flatOp(triangle(0), red, render.DefaultState)))
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("expected an error naming the op, got %v", err)
	}
	if c.At(5, 5) != red {
		t.Error("the rest of the frame should still be drawn")
	}
}

func TestResize(t *testing.T) {
	c := New(4, 4, nil)
	_ = c.Execute(frame(7, 5))
	if w, h := c.Size(); w != 7 || h != 6 {
		t.Errorf("expected 7x6, got %dx%d", w, h)
	}
	c.Resize(0, 0)
	if w, h := c.Size(); w != 1 || h != 2 {
		t.Errorf("expected 1x2 minimum, got %dx%d", w, h)
	}
}

func TestOutput(t *testing.T) {
	c := New(4, 4, nil)
	c.Clear(mgl32.Vec3{0.5, 0.5, 0.5})

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if n := strings.Count(l, halfBlock); n != 4 {
			t.Errorf("line %d: expected 4 cells, got %d", i, n)
		}
	}
	if strings.Count(c.String(), "\n") != 1 {
		t.Error("expected lines joined by a newline")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   mgl32.Vec3
		want string
	}{
		{mgl32.Vec3{1, 0, 0}, "#ff0000"},
		{mgl32.Vec3{2.55, 1.2, -1}, "#ffff00"},
		{mgl32.Vec3{0, 0, 0}, "#000000"},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestDefaultSceneRenders(t *testing.T) {
	scene := config.Default()
	sys, err := orbit.NewSystem(scene)
	if err != nil {
		t.Fatal(err)
	}
	p := render.New(sys, scene, nil, render.DefaultOptions())
	view := camera.New(camera.DefaultConfig(), sys).View()
	f := p.Build(view, render.Toggles{Orbits: true, Stars: true}, render.Viewport{Width: 80, Height: 48})

	c := New(1, 1, nil)
	if err := c.Execute(f); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The Orbit camera looks at the star, so the centre is the star's
	// emissive tint.
	centre := c.At(40, 24)
	if centre.X() < 1 || centre.Z() >= centre.X() {
		t.Errorf("expected a bright warm centre, got %v", centre)
	}
	s := c.Stats()
	if s.Culled == 0 || s.Fragments == 0 || s.Lines == 0 {
		t.Errorf("expected culling, fragments and guide lines, got %+v", s)
	}
	if len(c.Lines()) != 24 {
		t.Errorf("expected 24 terminal lines, got %d", len(c.Lines()))
	}
}
