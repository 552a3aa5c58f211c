package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ambientStrength scales the light colour into the ambient term.
const ambientStrength = 0.05

// Lighting is the per-draw light and eye setup.
type Lighting struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	ViewPos  mgl32.Vec3
}

// Material is the per-draw surface of the lit program.
type Material struct {
	BaseColor  mgl32.Vec3 // used when UseTexture is false
	Emissive   float32
	Shininess  float32
	Specular   float32
	UseTexture bool
}

// Shade evaluates the lit program for one fragment: ambient, Lambert
// diffuse and Blinn-Phong specular from a point light, plus emission.
// albedo is the texel and is ignored unless UseTexture is set. The result
// is not clamped.
func (m Material) Shade(albedo, normal, fragPos mgl32.Vec3, l Lighting) mgl32.Vec3 {
	color := m.BaseColor
	if m.UseTexture {
		color = albedo
	}

	n := normalize(normal)
	toLight := normalize(l.Position.Sub(fragPos))
	toEye := normalize(l.ViewPos.Sub(fragPos))
	half := normalize(toLight.Add(toEye))

	diff := max(n.Dot(toLight), 0)
	shininess := max(m.Shininess, 1)
	spec := float32(math.Pow(float64(max(n.Dot(half), 0)), float64(shininess)))

	k := ambientStrength + diff + m.Specular*spec
	lit := mul(l.Color.Mul(k), color)
	return lit.Add(color.Mul(m.Emissive))
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() == 0 {
		return v
	}
	return v.Normalize()
}

// mul is the component-wise product.
func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
