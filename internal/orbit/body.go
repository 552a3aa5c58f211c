// Package orbit models the body hierarchy of the orrery and composes each
// body's world transform from its chain of ancestors.
//
// Angles are in degrees. A positive angle about the vertical axis sweeps
// the reference axis +X toward +Z, so a body at orbit angle θ sits at
// (r·cos θ, 0, r·sin θ) in its parent's frame.
package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/mesh"
)

// Kind classifies a body by its depth in the hierarchy.
type Kind int

const (
	KindStar Kind = iota
	KindPlanet
	KindMoon
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// Surface holds the material parameters of a body or ring.
type Surface struct {
	Texture   string     // opaque texture key, resolved by the renderer
	Color     mgl32.Vec3 // base tint, also the untextured fallback
	Shininess float32
	Specular  float32
	Emissive  float32
}

// Ring is a flat ring riding on a body's orbit with a fixed axial tilt.
type Ring struct {
	Mesh    *mesh.Mesh
	Tilt    float64 // degrees about +X
	Surface Surface
}

// Body is one celestial body. Parent is a back-reference only; the System
// owns every body.
type Body struct {
	Name string
	Kind Kind

	OrbitRadius float64
	OrbitSpeed  float64 // degrees per second
	SpinSpeed   float64 // degrees per second
	OrbitAngle  float64
	SpinAngle   float64

	Mesh    *mesh.Mesh
	Surface Surface
	Ring    *Ring
	Parent  *Body
}

// Advance moves both angular accumulators by the given advance value.
// Angles are not wrapped.
func (b *Body) Advance(advance float64) {
	b.OrbitAngle += b.OrbitSpeed * advance
	b.SpinAngle += b.SpinSpeed * advance
}

// Chain returns the ancestry from the root down to and including b.
func (b *Body) Chain() []*Body {
	var chain []*Body
	for p := b; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// OrbitPosition is the body's position on its own orbit circle in the
// parent's frame, ignoring spin.
func (b *Body) OrbitPosition() mgl32.Vec3 {
	rad := b.OrbitAngle * math.Pi / 180
	return mgl32.Vec3{
		float32(b.OrbitRadius * math.Cos(rad)),
		0,
		float32(b.OrbitRadius * math.Sin(rad)),
	}
}
