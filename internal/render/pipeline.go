package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/mesh"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/texture"
)

// Textures resolves texture keys to loaded handles.
type Textures interface {
	Lookup(key string) (texture.Handle, bool)
}

// Options are the fixed colours and overlay geometry of the pipeline.
type Options struct {
	Clear         mgl32.Vec3
	LightColor    mgl32.Vec3
	SkyLightColor mgl32.Vec3
	SkyEmissive   float32
	SkyShininess  float32

	HUDColor    mgl32.Vec3
	HUDSegments int
	// HUDRadius and HUDInset are in pixels at HUDReference viewport
	// height and scale with the actual height.
	HUDRadius    float32
	HUDInset     float32
	HUDReference float32
}

// DefaultOptions returns the stock look.
func DefaultOptions() Options {
	return Options{
		Clear:         mgl32.Vec3{0.02, 0.02, 0.05},
		LightColor:    mgl32.Vec3{7, 7, 7},
		SkyLightColor: mgl32.Vec3{1, 1, 1},
		SkyEmissive:   1,
		SkyShininess:  32,
		HUDColor:      mgl32.Vec3{0.9, 0.9, 0.9},
		HUDSegments:   128,
		HUDRadius:     80,
		HUDInset:      100,
		HUDReference:  720,
	}
}

type skyDome struct {
	mesh    *mesh.Mesh
	handle  MeshHandle
	texture texture.Handle
	color   mgl32.Vec3
}

type guide struct {
	mesh   *mesh.Mesh
	handle MeshHandle
}

// Pipeline turns the simulation state into a Frame. All geometry is
// built and registered in New; Build only computes matrices.
type Pipeline struct {
	sys      *orbit.System
	opts     Options
	assets   *Assets
	textures map[string]texture.Handle

	sky        skyDome
	guides     []guide
	guideColor mgl32.Vec3
	hud        guide
}

// New builds the pipeline for sys. textures may be nil, in which case
// every draw falls back to its base colour.
func New(sys *orbit.System, scene config.Scene, textures Textures, opts Options) *Pipeline {
	p := &Pipeline{
		sys:        sys,
		opts:       opts,
		assets:     NewAssets(),
		textures:   make(map[string]texture.Handle),
		guideColor: config.ColorOr(scene.OrbitLines.Color, mgl32.Vec3{0.35, 0.36, 0.45}),
	}

	resolve := func(key string) {
		if key == "" || textures == nil {
			return
		}
		if h, ok := textures.Lookup(key); ok {
			p.textures[key] = h
		}
	}

	for _, b := range sys.Bodies() {
		p.assets.Register(b.Mesh)
		resolve(b.Surface.Texture)
		if b.Ring != nil {
			p.assets.Register(b.Ring.Mesh)
			resolve(b.Ring.Surface.Texture)
		}
	}

	skyMesh := mesh.Sphere(scene.Sky.Stacks, scene.Sky.Slices, scene.Sky.Radius)
	resolve(scene.Sky.Texture)
	p.sky = skyDome{
		mesh:    skyMesh,
		handle:  p.assets.Register(skyMesh),
		texture: p.textures[scene.Sky.Texture],
		color:   config.ColorOr(scene.Sky.Color, mgl32.Vec3{}),
	}

	for _, r := range sys.OrbitRadii() {
		m := mesh.OrbitLine(scene.OrbitLines.Segments, float32(r))
		p.guides = append(p.guides, guide{mesh: m, handle: p.assets.Register(m)})
	}

	circle := mesh.OrbitLine(opts.HUDSegments, 1)
	p.hud = guide{mesh: circle, handle: p.assets.Register(circle)}
	return p
}

// Assets returns the upload table.
func (p *Pipeline) Assets() *Assets {
	return p.assets
}

// Build emits the frame's draw list: sky, star, remaining bodies with
// each ring right after its planet, orbit guides, then the overlay.
func (p *Pipeline) Build(view camera.View, t Toggles, vp Viewport) Frame {
	v := view.Matrix()
	proj := view.Projection(vp.Aspect())

	f := Frame{
		Viewport: vp,
		Clear:    p.opts.Clear,
		View:     view,
		Ops:      make([]DrawOp, 0, len(p.sys.Bodies())+len(p.guides)+3),
	}

	if t.Stars {
		f.Ops = append(f.Ops, p.skyOp(view, v, proj))
	}

	light := Lighting{Color: p.opts.LightColor, ViewPos: view.Eye}
	if star := p.sys.Star(); star != nil {
		f.Ops = append(f.Ops, p.bodyOp(star, v, proj, light))
	}
	for _, b := range p.sys.Bodies() {
		if b == p.sys.Star() {
			continue
		}
		f.Ops = append(f.Ops, p.bodyOp(b, v, proj, light))
		if b.Ring != nil {
			f.Ops = append(f.Ops, p.ringOp(b, v, proj, light))
		}
	}

	if t.Orbits {
		vpm := proj.Mul4(v)
		for _, g := range p.guides {
			f.Ops = append(f.Ops, DrawOp{
				Pass:       PassOrbit,
				Label:      "orbit",
				Program:    ProgramFlat,
				Mesh:       g.mesh,
				Handle:     g.handle,
				Model:      mgl32.Ident4(),
				View:       v,
				Projection: proj,
				MVP:        vpm,
				Normal:     mgl32.Ident3(),
				Color:      p.guideColor,
				State:      State{DepthTest: true, DepthWrite: true, Cull: CullNone},
			})
		}
	}

	f.Ops = append(f.Ops, p.hudOp(vp))
	return f
}

func (p *Pipeline) skyOp(view camera.View, v, proj mgl32.Mat4) DrawOp {
	model := mgl32.Translate3D(view.Eye.X(), view.Eye.Y(), view.Eye.Z())
	return DrawOp{
		Pass:       PassSky,
		Label:      "sky",
		Program:    ProgramLit,
		Mesh:       p.sky.mesh,
		Handle:     p.sky.handle,
		Texture:    p.sky.texture,
		Model:      model,
		View:       v,
		Projection: proj,
		MVP:        proj.Mul4(v).Mul4(model),
		Normal:     mgl32.Ident3(),
		Material: Material{
			BaseColor:  p.sky.color,
			Emissive:   p.opts.SkyEmissive,
			Shininess:  p.opts.SkyShininess,
			Specular:   0,
			UseTexture: p.sky.texture != texture.Placeholder,
		},
		Light: Lighting{Color: p.opts.SkyLightColor, ViewPos: view.Eye},
		State: State{DepthTest: true, DepthWrite: false, Cull: CullFront},
	}
}

func (p *Pipeline) bodyOp(b *orbit.Body, v, proj mgl32.Mat4, light Lighting) DrawOp {
	return p.litOp(PassBody, b.Name, b.Mesh, orbit.WorldTransform(b), b.Surface, v, proj, light, DefaultState)
}

func (p *Pipeline) ringOp(b *orbit.Body, v, proj mgl32.Mat4, light Lighting) DrawOp {
	// The ring is a single sheet, visible from both sides.
	st := State{DepthTest: true, DepthWrite: true, Cull: CullNone}
	return p.litOp(PassRing, b.Name+" ring", b.Ring.Mesh, orbit.RingTransform(b), b.Ring.Surface, v, proj, light, st)
}

func (p *Pipeline) litOp(pass Pass, label string, m *mesh.Mesh, model mgl32.Mat4, s orbit.Surface, v, proj mgl32.Mat4, light Lighting, st State) DrawOp {
	tex := p.textures[s.Texture]
	return DrawOp{
		Pass:       pass,
		Label:      label,
		Program:    ProgramLit,
		Mesh:       m,
		Handle:     p.assets.Handle(m),
		Texture:    tex,
		Model:      model,
		View:       v,
		Projection: proj,
		MVP:        proj.Mul4(v).Mul4(model),
		Normal:     normalMatrix(model),
		Material: Material{
			BaseColor:  s.Color,
			Emissive:   s.Emissive,
			Shininess:  s.Shininess,
			Specular:   s.Specular,
			UseTexture: tex != texture.Placeholder,
		},
		Light: light,
		State: st,
	}
}

func (p *Pipeline) hudOp(vp Viewport) DrawOp {
	w, h := float32(max(vp.Width, 1)), float32(max(vp.Height, 1))
	// Sized for a 720 px tall window; a terminal canvas is far shorter.
	scale := float32(1)
	if p.opts.HUDReference > 0 {
		scale = h / p.opts.HUDReference
	}
	r := p.opts.HUDRadius * scale
	inset := p.opts.HUDInset * scale

	ortho := mgl32.Ortho2D(0, w, 0, h)
	model := mgl32.Translate3D(inset, h-inset, 0).Mul4(mgl32.Scale3D(r, r, 1))
	return DrawOp{
		Pass:       PassHUD,
		Label:      "hud",
		Program:    ProgramFlat,
		Mesh:       p.hud.mesh,
		Handle:     p.hud.handle,
		Model:      model,
		View:       mgl32.Ident4(),
		Projection: ortho,
		MVP:        ortho.Mul4(model),
		Normal:     mgl32.Ident3(),
		Color:      p.opts.HUDColor,
		State:      State{DepthTest: false, DepthWrite: false, Cull: CullNone},
	}
}

func normalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	m := model.Mat3()
	if m.Det() == 0 {
		return m
	}
	return m.Inv().Transpose()
}
