// Package raster executes render frames on a software canvas and prints
// the result as half-block terminal cells.
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/mesh"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/texture"
)

// Sampler looks up texels. texture.Registry implements it.
type Sampler interface {
	Sample(h texture.Handle, u, v float32) (mgl32.Vec3, bool)
}

// Stats counts the work of the last Execute.
type Stats struct {
	Ops       int
	Triangles int
	Culled    int
	Clipped   int // rejected at the near plane
	Lines     int
	Fragments int
}

// Canvas is a colour and depth buffer. Pixel rows are printed two per
// terminal line, so the height is kept even.
type Canvas struct {
	width, height int
	color         []mgl32.Vec3
	depth         []float32
	textures      Sampler
	stats         Stats
}

// New returns a canvas of width x height pixels. textures may be nil.
func New(width, height int, textures Sampler) *Canvas {
	c := &Canvas{textures: textures}
	c.Resize(width, height)
	return c
}

// Resize reallocates the buffers. Odd heights are rounded up.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 1), max(height, 2)
	height += height % 2
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.color = make([]mgl32.Vec3, width*height)
	c.depth = make([]float32, width*height)
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// At returns the colour of pixel (x, y), with y = 0 the top row.
func (c *Canvas) At(x, y int) mgl32.Vec3 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return mgl32.Vec3{}
	}
	return c.color[y*c.width+x]
}

// Depth returns the depth of pixel (x, y) in [-1, 1], or +Inf if nothing
// wrote it.
func (c *Canvas) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return float32(math.Inf(1))
	}
	return c.depth[y*c.width+x]
}

// Stats returns the counters of the last frame.
func (c *Canvas) Stats() Stats {
	return c.stats
}

// Clear fills the colour buffer and resets depth.
func (c *Canvas) Clear(col mgl32.Vec3) {
	inf := float32(math.Inf(1))
	for i := range c.color {
		c.color[i] = col
		c.depth[i] = inf
	}
}

// Execute draws f. The canvas follows the frame's viewport. Ops that
// cannot be drawn are skipped and reported together; the rest of the
// frame is still drawn.
func (c *Canvas) Execute(f render.Frame) error {
	if f.Viewport.Width > 0 && f.Viewport.Height > 0 {
		c.Resize(f.Viewport.Width, f.Viewport.Height)
	}
	c.stats = Stats{}
	c.Clear(f.Clear)

	var errs []error
	for i := range f.Ops {
		op := &f.Ops[i]
		if op.Mesh == nil {
			errs = append(errs, fmt.Errorf("op %d (%s): no mesh", i, op.Label))
			continue
		}
		c.stats.Ops++
		switch op.Mesh.Primitive {
		case mesh.Lines:
			c.drawLines(op)
		default:
			c.drawTriangles(op)
		}
	}
	return errors.Join(errs...)
}

// vertex is a transformed vertex.
type vertex struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
	uv     mgl32.Vec2
	// screen position and depth, valid when the vertex is in front of
	// the near plane
	sx, sy, sz float32
	invW       float32
}

func (c *Canvas) transform(op *render.DrawOp, v mesh.Vertex) vertex {
	p := v.Pos.Vec4(1)
	out := vertex{
		clip:   op.MVP.Mul4x1(p),
		world:  op.Model.Mul4x1(p).Vec3(),
		normal: op.Normal.Mul3x1(v.Normal),
		uv:     v.UV,
	}
	if out.clip.W() > 0 {
		out.invW = 1 / out.clip.W()
		out.sx = (out.clip.X()*out.invW + 1) * 0.5 * float32(c.width)
		out.sy = (1 - out.clip.Y()*out.invW) * 0.5 * float32(c.height)
		out.sz = out.clip.Z() * out.invW
	}
	return out
}

// behindNear reports whether v is outside the near plane.
func behindNear(v *vertex) bool {
	return v.clip.W() <= 0 || v.clip.Z() < -v.clip.W()
}

func (c *Canvas) drawTriangles(op *render.DrawOp) {
	verts := make([]vertex, len(op.Mesh.Vertices))
	for i, v := range op.Mesh.Vertices {
		verts[i] = c.transform(op, v)
	}

	idx := op.Mesh.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, cc := &verts[idx[t]], &verts[idx[t+1]], &verts[idx[t+2]]
		c.stats.Triangles++
		if behindNear(a) || behindNear(b) || behindNear(cc) {
			c.stats.Clipped++
			continue
		}

		// Screen y grows downward, so counter-clockwise in NDC has a
		// negative signed area here.
		area := edge(a.sx, a.sy, b.sx, b.sy, cc.sx, cc.sy)
		if area == 0 {
			c.stats.Culled++
			continue
		}
		front := area < 0
		switch op.State.Cull {
		case render.CullBack:
			if !front {
				c.stats.Culled++
				continue
			}
		case render.CullFront:
			if front {
				c.stats.Culled++
				continue
			}
		}
		c.fillTriangle(op, a, b, cc, area)
	}
}

// edge is twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (c *Canvas) fillTriangle(op *render.DrawOp, a, b, v *vertex, area float32) {
	minX := max(int(math.Floor(float64(min(a.sx, b.sx, v.sx)))), 0)
	maxX := min(int(math.Ceil(float64(max(a.sx, b.sx, v.sx)))), c.width-1)
	minY := max(int(math.Floor(float64(min(a.sy, b.sy, v.sy)))), 0)
	maxY := min(int(math.Ceil(float64(max(a.sy, b.sy, v.sy)))), c.height-1)
	if minX > maxX || minY > maxY {
		return
	}

	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b.sx, b.sy, v.sx, v.sy, px, py) * inv
			w1 := edge(v.sx, v.sy, a.sx, a.sy, px, py) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.sz + w1*b.sz + w2*v.sz
			if z > 1 {
				continue
			}
			i := y*c.width + x
			if op.State.DepthTest && z >= c.depth[i] {
				continue
			}

			// Perspective-correct weights.
			p0, p1, p2 := w0*a.invW, w1*b.invW, w2*v.invW
			norm := 1 / (p0 + p1 + p2)
			p0, p1, p2 = p0*norm, p1*norm, p2*norm

			world := a.world.Mul(p0).Add(b.world.Mul(p1)).Add(v.world.Mul(p2))
			n := a.normal.Mul(p0).Add(b.normal.Mul(p1)).Add(v.normal.Mul(p2))
			uv := a.uv.Mul(p0).Add(b.uv.Mul(p1)).Add(v.uv.Mul(p2))

			albedo := op.Material.BaseColor
			if op.Material.UseTexture && c.textures != nil {
				if texel, ok := c.textures.Sample(op.Texture, uv.X(), uv.Y()); ok {
					albedo = texel
				}
			}

			c.color[i] = op.Material.Shade(albedo, n, world, op.Light)
			if op.State.DepthWrite {
				c.depth[i] = z
			}
			c.stats.Fragments++
		}
	}
}

func (c *Canvas) drawLines(op *render.DrawOp) {
	verts := make([]vertex, len(op.Mesh.Vertices))
	for i, v := range op.Mesh.Vertices {
		p := v.Pos.Vec4(1)
		verts[i].clip = op.MVP.Mul4x1(p)
		if w := verts[i].clip.W(); w > 0 {
			verts[i].invW = 1 / w
			verts[i].sx = (verts[i].clip.X()/w + 1) * 0.5 * float32(c.width)
			verts[i].sy = (1 - verts[i].clip.Y()/w) * 0.5 * float32(c.height)
			verts[i].sz = verts[i].clip.Z() / w
		}
	}

	idx := op.Mesh.Indices
	for l := 0; l+1 < len(idx); l += 2 {
		a, b := &verts[idx[l]], &verts[idx[l+1]]
		if behindNear(a) || behindNear(b) {
			c.stats.Clipped++
			continue
		}
		c.stats.Lines++
		c.line(op, a, b)
	}
}

// line walks the segment one pixel step at a time along its major axis.
func (c *Canvas) line(op *render.DrawOp, a, b *vertex) {
	dx, dy := b.sx-a.sx, b.sy-a.sy
	steps := int(math.Ceil(float64(max(abs(dx), abs(dy)))))
	if steps == 0 {
		steps = 1
	}
	// Guard against segments projected far off screen.
	if steps > 4*(c.width+c.height) {
		return
	}

	for s := 0; s <= steps; s++ {
		t := float32(s) / float32(steps)
		x := int(math.Floor(float64(a.sx + dx*t)))
		y := int(math.Floor(float64(a.sy + dy*t)))
		if x < 0 || y < 0 || x >= c.width || y >= c.height {
			continue
		}
		z := a.sz + (b.sz-a.sz)*t
		if z > 1 {
			continue
		}
		i := y*c.width + x
		if op.State.DepthTest && z >= c.depth[i] {
			continue
		}
		c.color[i] = op.Color
		if op.State.DepthWrite {
			c.depth[i] = z
		}
		c.stats.Fragments++
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
