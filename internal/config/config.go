// Package config loads the orrery scene description: bodies, their orbit
// and surface parameters, the sky dome and the orbit guides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// Scene is the construction-time configuration of the whole system.
// Nothing in it is mutated at runtime.
type Scene struct {
	Bodies     []Body     `yaml:"bodies"`
	Sky        Sky        `yaml:"sky"`
	OrbitLines OrbitLines `yaml:"orbit_lines"`
}

// Body describes one celestial body. A body without a parent is the star.
type Body struct {
	Name        string  `yaml:"name"`
	Parent      string  `yaml:"parent,omitempty"`
	OrbitRadius float64 `yaml:"orbit_radius"`
	OrbitSpeed  float64 `yaml:"orbit_speed"` // degrees per second
	SpinSpeed   float64 `yaml:"spin_speed"`  // degrees per second

	Sphere  Sphere `yaml:"sphere"`
	Texture string `yaml:"texture,omitempty"`
	Color   string `yaml:"color,omitempty"` // untextured fallback, hex

	Shininess float32 `yaml:"shininess"`
	Specular  float32 `yaml:"specular"`
	Emissive  float32 `yaml:"emissive,omitempty"`

	Ring *Ring `yaml:"ring,omitempty"`
}

// Sphere is the tessellation of a body mesh.
type Sphere struct {
	Stacks int     `yaml:"stacks"`
	Slices int     `yaml:"slices"`
	Radius float32 `yaml:"radius"`
}

// Ring describes a planetary ring attached to a body.
type Ring struct {
	Segments  int     `yaml:"segments"`
	Inner     float32 `yaml:"inner"`
	Outer     float32 `yaml:"outer"`
	Tilt      float64 `yaml:"tilt"` // degrees about +X
	Texture   string  `yaml:"texture,omitempty"`
	Color     string  `yaml:"color,omitempty"`
	Shininess float32 `yaml:"shininess"`
	Specular  float32 `yaml:"specular"`
}

// Sky is the inside-out star dome.
type Sky struct {
	Texture string  `yaml:"texture,omitempty"`
	Color   string  `yaml:"color,omitempty"`
	Radius  float32 `yaml:"radius"`
	Stacks  int     `yaml:"stacks"`
	Slices  int     `yaml:"slices"`
}

// OrbitLines configures the orbit guide loops.
type OrbitLines struct {
	Segments int    `yaml:"segments"`
	Color    string `yaml:"color"`
}

// Default returns the built-in solar system.
func Default() Scene {
	tiny := Sphere{Stacks: 28, Slices: 56, Radius: 0.35}
	small := Sphere{Stacks: 32, Slices: 64, Radius: 0.6}
	big := Sphere{Stacks: 48, Slices: 96, Radius: 2.0}

	return Scene{
		Bodies: []Body{
			{Name: "Sun", SpinSpeed: 10, Sphere: Sphere{Stacks: 48, Slices: 96, Radius: 2.8},
				Texture: "sun.jpg", Color: "#FFCC33", Shininess: 16, Specular: 0, Emissive: 2.2},
			{Name: "Mercury", Parent: "Sun", OrbitRadius: 6, OrbitSpeed: 48, SpinSpeed: 6, Sphere: tiny,
				Texture: "mercury.jpg", Color: "#9C9C9C", Shininess: 64, Specular: 0.35},
			{Name: "Venus", Parent: "Sun", OrbitRadius: 9, OrbitSpeed: 35, SpinSpeed: -2, Sphere: small,
				Texture: "venus.jpg", Color: "#E3BB76", Shininess: 64, Specular: 0.35},
			{Name: "Earth", Parent: "Sun", OrbitRadius: 12, OrbitSpeed: 30, SpinSpeed: 50,
				Sphere:  Sphere{Stacks: 40, Slices: 80, Radius: 1.0},
				Texture: "earth_day.jpg", Color: "#2E6FD8", Shininess: 64, Specular: 0.40},
			{Name: "Moon", Parent: "Earth", OrbitRadius: 2, OrbitSpeed: 80, SpinSpeed: 20, Sphere: tiny,
				Texture: "moon.jpg", Color: "#BBBBBB", Shininess: 16, Specular: 0.20},
			{Name: "Mars", Parent: "Sun", OrbitRadius: 15, OrbitSpeed: 24, SpinSpeed: 40, Sphere: small,
				Texture: "mars.jpg", Color: "#C1440E", Shininess: 64, Specular: 0.35},
			{Name: "Jupiter", Parent: "Sun", OrbitRadius: 20, OrbitSpeed: 13, SpinSpeed: 80, Sphere: big,
				Texture: "jupiter.jpg", Color: "#D8A06A", Shininess: 32, Specular: 0.25},
			{Name: "Europa", Parent: "Jupiter", OrbitRadius: 3, OrbitSpeed: 90, SpinSpeed: 15, Sphere: tiny,
				Texture: "moon.jpg", Color: "#D9CBB0", Shininess: 16, Specular: 0.20},
			{Name: "Saturn", Parent: "Sun", OrbitRadius: 26, OrbitSpeed: 10, SpinSpeed: 70, Sphere: big,
				Texture: "saturn.jpg", Color: "#E3CF8F", Shininess: 32, Specular: 0.25,
				Ring: &Ring{Segments: 256, Inner: 1.8, Outer: 3.2, Tilt: 27,
					Texture: "saturnRing.png", Color: "#CDBA96", Shininess: 8, Specular: 0.05}},
			{Name: "Uranus", Parent: "Sun", OrbitRadius: 32, OrbitSpeed: 7, SpinSpeed: 50,
				Sphere:  Sphere{Stacks: 44, Slices: 88, Radius: 1.3},
				Texture: "uranus.jpg", Color: "#9FD9E6", Shininess: 32, Specular: 0.25},
			{Name: "Neptune", Parent: "Sun", OrbitRadius: 38, OrbitSpeed: 5, SpinSpeed: 40,
				Sphere:  Sphere{Stacks: 44, Slices: 88, Radius: 1.25},
				Texture: "neptune.jpg", Color: "#3F62D8", Shininess: 32, Specular: 0.25},
		},
		Sky:        Sky{Texture: "stars.jpg", Color: "#0B0B1A", Radius: 300, Stacks: 24, Slices: 48},
		OrbitLines: OrbitLines{Segments: 256, Color: "#595C73"},
	}
}

// Load reads a YAML scene file. Fields the file leaves out keep their
// default values; a bodies list in the file replaces the default list.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML scene document.
func Parse(data []byte) (Scene, error) {
	scene := Default()
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	scene.normalize()
	if err := scene.Validate(); err != nil {
		return Scene{}, err
	}
	return scene, nil
}

func (s *Scene) normalize() {
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Sphere.Stacks <= 0 {
			b.Sphere.Stacks = 32
		}
		if b.Sphere.Slices <= 0 {
			b.Sphere.Slices = 2 * b.Sphere.Stacks
		}
		if b.Sphere.Radius <= 0 {
			b.Sphere.Radius = 1
		}
		if b.Color == "" {
			b.Color = "#FFFFFF"
		}
		if b.Ring != nil {
			if b.Ring.Segments <= 0 {
				b.Ring.Segments = 128
			}
			if b.Ring.Color == "" {
				b.Ring.Color = "#FFFFFF"
			}
		}
	}
	if s.Sky.Radius <= 0 {
		s.Sky.Radius = 300
	}
	if s.Sky.Stacks <= 0 {
		s.Sky.Stacks = 24
	}
	if s.Sky.Slices <= 0 {
		s.Sky.Slices = 48
	}
	if s.Sky.Color == "" {
		s.Sky.Color = "#000000"
	}
	if s.OrbitLines.Segments <= 0 {
		s.OrbitLines.Segments = 256
	}
	if s.OrbitLines.Color == "" {
		s.OrbitLines.Color = "#595C73"
	}
}

// Validate checks the body hierarchy and parameter ranges.
func (s Scene) Validate() error {
	if len(s.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidScene)
	}

	byName := make(map[string]Body, len(s.Bodies))
	roots := 0
	for _, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body with empty name", ErrInvalidScene)
		}
		if _, dup := byName[b.Name]; dup {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidScene, b.Name)
		}
		byName[b.Name] = b
		if b.Parent == "" {
			roots++
		}
		if b.OrbitRadius < 0 {
			return fmt.Errorf("%w: %s: negative orbit radius %v", ErrInvalidScene, b.Name, b.OrbitRadius)
		}
		if _, err := ParseColor(b.Color); b.Color != "" && err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidScene, b.Name, err)
		}
		if r := b.Ring; r != nil {
			if r.Inner < 0 || r.Outer <= r.Inner {
				return fmt.Errorf("%w: %s: ring radii %v..%v", ErrInvalidScene, b.Name, r.Inner, r.Outer)
			}
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: want exactly one star, found %d bodies without parent", ErrInvalidScene, roots)
	}

	for _, b := range s.Bodies {
		seen := map[string]bool{b.Name: true}
		for p := b.Parent; p != ""; p = byName[p].Parent {
			if _, ok := byName[p]; !ok {
				return fmt.Errorf("%w: %s: unknown parent %q", ErrInvalidScene, b.Name, p)
			}
			if seen[p] {
				return fmt.Errorf("%w: %s: parent cycle through %q", ErrInvalidScene, b.Name, p)
			}
			seen[p] = true
		}
	}
	return nil
}

// ParseColor converts a hex colour to 0..1 RGB components as used by the
// material model.
func ParseColor(hex string) (mgl32.Vec3, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// ColorOr is ParseColor with a fallback for values that fail to parse.
func ColorOr(hex string, fallback mgl32.Vec3) mgl32.Vec3 {
	c, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// TextureKeys returns every texture the scene references, sky first,
// without duplicates.
func (s Scene) TextureKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(s.Sky.Texture)
	for _, b := range s.Bodies {
		add(b.Texture)
		if b.Ring != nil {
			add(b.Ring.Texture)
		}
	}
	return keys
}
