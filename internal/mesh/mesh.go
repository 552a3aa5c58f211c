// Package mesh provides procedural geometry for the orrery: UV spheres,
// flat rings and circular line loops.
//
// Every generator is a pure function of its numeric inputs. Identical
// inputs always produce identical topology, so vertex and index counts can
// be asserted directly in tests.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is the topology an index list describes.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

// Vertex is a single interleaved vertex record.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	UV     mgl32.Vec2
}

// Mesh is an immutable bundle of vertices and indices. It is never mutated
// after construction and may be shared by any number of bodies.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// Radius returns the largest vertex distance from the local origin.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, v := range m.Vertices {
		if l := v.Pos.Len(); l > r {
			r = l
		}
	}
	return r
}

// minSteps floors a tessellation count so generation always has at least
// one row and column to work with.
func minSteps(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

var up = mgl32.Vec3{0, 1, 0}

// Sphere builds a latitude/longitude sphere with (stacks+1)*(slices+1)
// vertices and 6*stacks*slices indices. Triangles wind counter-clockwise
// seen from outside. Pole and seam vertices are duplicated, not shared.
func Sphere(stacks, slices int, radius float32) *Mesh {
	stacks = minSteps(stacks)
	slices = minSteps(slices)

	verts := make([]Vertex, 0, (stacks+1)*(slices+1))
	for i := 0; i <= stacks; i++ {
		fv := float64(i) / float64(stacks)
		phi := fv * math.Pi
		y := math.Cos(phi)
		rr := math.Sin(phi)

		for j := 0; j <= slices; j++ {
			fu := float64(j) / float64(slices)
			theta := fu * 2 * math.Pi
			dir := mgl32.Vec3{
				float32(rr * math.Cos(theta)),
				float32(y),
				float32(rr * math.Sin(theta)),
			}
			verts = append(verts, Vertex{
				Pos:    dir.Mul(radius),
				Normal: normalize(dir),
				UV:     mgl32.Vec2{float32(fu), float32(1 - fv)},
			})
		}
	}

	idx := make([]uint32, 0, 6*stacks*slices)
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		r1 := uint32(i) * row
		r2 := r1 + row
		for j := uint32(0); j < uint32(slices); j++ {
			idx = append(idx,
				r1+j, r2+j+1, r2+j,
				r1+j, r1+j+1, r2+j+1,
			)
		}
	}

	return &Mesh{Name: "sphere", Vertices: verts, Indices: idx, Primitive: Triangles}
}

// Ring builds a flat annulus in the XZ plane facing +Y. Each of the
// segments+1 steps contributes an outer and an inner vertex; UV.v is 1 on
// the outer edge and 0 on the inner edge.
func Ring(segments int, innerRadius, outerRadius float32) *Mesh {
	segments = minSteps(segments)

	verts := make([]Vertex, 0, 2*(segments+1))
	idx := make([]uint32, 0, 6*segments)
	for i := 0; i <= segments; i++ {
		u := float64(i) / float64(segments)
		theta := u * 2 * math.Pi
		c := float32(math.Cos(theta))
		s := float32(math.Sin(theta))

		verts = append(verts,
			Vertex{Pos: mgl32.Vec3{outerRadius * c, 0, outerRadius * s}, Normal: up, UV: mgl32.Vec2{float32(u), 1}},
			Vertex{Pos: mgl32.Vec3{innerRadius * c, 0, innerRadius * s}, Normal: up, UV: mgl32.Vec2{float32(u), 0}},
		)
		if i < segments {
			b := uint32(i * 2)
			idx = append(idx,
				b, b+1, b+2,
				b+1, b+3, b+2,
			)
		}
	}

	return &Mesh{Name: "ring", Vertices: verts, Indices: idx, Primitive: Triangles}
}

// OrbitLine builds a closed loop of segments points on a circle in the XZ
// plane, joined by segments line pairs. The last pair wraps back to 0.
func OrbitLine(segments int, radius float32) *Mesh {
	segments = minSteps(segments)

	verts := make([]Vertex, 0, segments)
	idx := make([]uint32, 0, 2*segments)
	for i := 0; i < segments; i++ {
		u := float64(i) / float64(segments)
		theta := u * 2 * math.Pi
		verts = append(verts, Vertex{
			Pos:    mgl32.Vec3{radius * float32(math.Cos(theta)), 0, radius * float32(math.Sin(theta))},
			Normal: up,
			UV:     mgl32.Vec2{float32(u), 0},
		})
		idx = append(idx, uint32(i), uint32((i+1)%segments))
	}

	return &Mesh{Name: "orbit-line", Vertices: verts, Indices: idx, Primitive: Lines}
}

// normalize returns v scaled to unit length, or +Y for a zero vector.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return up
	}
	return v.Normalize()
}
