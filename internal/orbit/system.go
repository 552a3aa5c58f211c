package orbit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/mesh"
)

var white = mgl32.Vec3{1, 1, 1}

// System owns every body of the orrery in configuration order.
type System struct {
	bodies     []*Body
	byName     map[string]*Body
	star       *Body
	focus      []*Body
	orbitRadii []float64
	meshes     map[config.Sphere]*mesh.Mesh
}

// NewSystem builds the hierarchy described by scene. Bodies with identical
// sphere parameters share one mesh.
func NewSystem(scene config.Scene) (*System, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	s := &System{
		byName: make(map[string]*Body, len(scene.Bodies)),
		meshes: make(map[config.Sphere]*mesh.Mesh),
	}

	for _, bc := range scene.Bodies {
		b := &Body{
			Name:        bc.Name,
			OrbitRadius: bc.OrbitRadius,
			OrbitSpeed:  bc.OrbitSpeed,
			SpinSpeed:   bc.SpinSpeed,
			Mesh:        s.sphere(bc.Sphere),
			Surface: Surface{
				Texture:   bc.Texture,
				Color:     config.ColorOr(bc.Color, white),
				Shininess: bc.Shininess,
				Specular:  bc.Specular,
				Emissive:  bc.Emissive,
			},
		}
		if rc := bc.Ring; rc != nil {
			b.Ring = &Ring{
				Mesh: mesh.Ring(rc.Segments, rc.Inner, rc.Outer),
				Tilt: rc.Tilt,
				Surface: Surface{
					Texture:   rc.Texture,
					Color:     config.ColorOr(rc.Color, white),
					Shininess: rc.Shininess,
					Specular:  rc.Specular,
				},
			}
		}
		s.bodies = append(s.bodies, b)
		s.byName[b.Name] = b
	}

	for i, bc := range scene.Bodies {
		b := s.bodies[i]
		if bc.Parent == "" {
			s.star = b
			continue
		}
		parent, ok := s.byName[bc.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown parent %q", config.ErrInvalidScene, b.Name, bc.Parent)
		}
		b.Parent = parent
	}

	for _, b := range s.bodies {
		switch depth := len(b.Chain()); {
		case depth == 1:
			b.Kind = KindStar
		case depth == 2:
			b.Kind = KindPlanet
		default:
			b.Kind = KindMoon
		}
		if b.Kind == KindMoon {
			continue
		}
		s.focus = append(s.focus, b)
		if b.OrbitRadius > 0 {
			s.orbitRadii = append(s.orbitRadii, b.OrbitRadius)
		}
	}

	return s, nil
}

func (s *System) sphere(sc config.Sphere) *mesh.Mesh {
	if m, ok := s.meshes[sc]; ok {
		return m
	}
	m := mesh.Sphere(sc.Stacks, sc.Slices, sc.Radius)
	s.meshes[sc] = m
	return m
}

// Advance applies one frame's advance value to every body. Each body's
// angles move independently of its depth in the hierarchy.
func (s *System) Advance(advance float64) {
	for _, b := range s.bodies {
		b.Advance(advance)
	}
}

// Bodies returns all bodies in configuration order.
func (s *System) Bodies() []*Body {
	return s.bodies
}

// Star returns the root body.
func (s *System) Star() *Body {
	return s.star
}

// Body looks a body up by name.
func (s *System) Body(name string) (*Body, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// OrbitRadii returns one radius per non-moon orbit, for the guide lines.
func (s *System) OrbitRadii() []float64 {
	return s.orbitRadii
}

// MeshCount returns the number of distinct sphere meshes built.
func (s *System) MeshCount() int {
	return len(s.meshes)
}

// FocusCount is the length of the focus list (star and planets).
func (s *System) FocusCount() int {
	return len(s.focus)
}

// FocusBody returns the focus list entry at i, wrapping in both directions.
func (s *System) FocusBody(i int) *Body {
	n := len(s.focus)
	if n == 0 {
		return nil
	}
	return s.focus[((i%n)+n)%n]
}

// FocusPosition is the orbit-plane position of the focus entry at i,
// ignoring spin.
func (s *System) FocusPosition(i int) mgl32.Vec3 {
	b := s.FocusBody(i)
	if b == nil {
		return mgl32.Vec3{}
	}
	return WorldPosition(b)
}

// FocusName is the name of the focus entry at i.
func (s *System) FocusName(i int) string {
	if b := s.FocusBody(i); b != nil {
		return b.Name
	}
	return ""
}
