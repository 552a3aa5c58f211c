package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// rotateY rotates by deg about the vertical axis so that +X turns toward
// +Z. The angle is wrapped in float64 before narrowing, which keeps long
// running accumulators precise.
func rotateY(deg float64) mgl32.Mat4 {
	rad := math.Mod(deg, 360) * math.Pi / 180
	return mgl32.HomogRotate3DY(float32(-rad))
}

// orbitStep is one link of the chain: rotate by the orbit angle, then
// translate out along the rotated reference axis.
func orbitStep(b *Body) mgl32.Mat4 {
	return rotateY(b.OrbitAngle).Mul4(mgl32.Translate3D(float32(b.OrbitRadius), 0, 0))
}

// OrbitTransform composes the orbit steps of every body from the root down
// to b. Spin is not applied anywhere in the chain.
func OrbitTransform(b *Body) mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, link := range b.Chain() {
		m = m.Mul4(orbitStep(link))
	}
	return m
}

// WorldTransform is the model matrix of b: its orbit transform followed by
// its own spin.
func WorldTransform(b *Body) mgl32.Mat4 {
	return OrbitTransform(b).Mul4(rotateY(b.SpinAngle))
}

// RingTransform places b's ring on b's orbit with the ring's fixed tilt in
// place of b's spin.
func RingTransform(b *Body) mgl32.Mat4 {
	m := OrbitTransform(b)
	if b.Ring == nil {
		return m
	}
	tilt := float32(b.Ring.Tilt * math.Pi / 180)
	return m.Mul4(mgl32.HomogRotate3DX(tilt))
}

// WorldPosition is the world-space origin of b.
func WorldPosition(b *Body) mgl32.Vec3 {
	return OrbitTransform(b).Col(3).Vec3()
}
