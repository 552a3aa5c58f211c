// Package texture decodes body and sky images once at startup and serves
// wrapped nearest-neighbour lookups to the rasterizer.
//
// Handle 0 is the placeholder. A body whose image failed to load keeps
// the placeholder and is drawn in its base colour.
package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/litescript/ls-orrery/internal/logging"
)

// Handle identifies a loaded texture.
type Handle uint32

// Placeholder is the handle of the missing-texture stand-in.
const Placeholder Handle = 0

// DefaultMaxWidth bounds decoded images. A terminal canvas rarely exceeds
// a few hundred pixels, so larger images only cost memory.
const DefaultMaxWidth = 512

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Texture is a decoded RGB image. Row 0 is the top of the source image.
type Texture struct {
	Key    string
	Width  int
	Height int
	texels []mgl32.Vec3
}

// At returns the texel for (u, v) with repeat wrapping. v = 0 is the
// bottom of the image.
func (t *Texture) At(u, v float32) mgl32.Vec3 {
	x := int(fract(u) * float32(t.Width))
	y := int((1 - fract(v)) * float32(t.Height))
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.texels[y*t.Width+x]
}

func fract(f float32) float32 {
	return f - float32(math.Floor(float64(f)))
}

// Registry owns every loaded texture.
type Registry struct {
	textures []*Texture
	byKey    map[string]Handle
	maxWidth int
	log      *logging.Logger
}

// NewRegistry returns a registry holding only the placeholder.
func NewRegistry(maxWidth int, log *logging.Logger) *Registry {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if log == nil {
		log = logging.Discard()
	}
	placeholder := &Texture{Key: "", Width: 1, Height: 1, texels: []mgl32.Vec3{{1, 1, 1}}}
	return &Registry{
		textures: []*Texture{placeholder},
		byKey:    make(map[string]Handle),
		maxWidth: maxWidth,
		log:      log,
	}
}

// Load decodes the PNG or JPEG at path and registers it under key. A key
// already loaded returns its existing handle. On failure the placeholder
// is returned with the error, and a warning is logged.
func (r *Registry) Load(key, path string) (Handle, error) {
	if h, ok := r.byKey[key]; ok {
		return h, nil
	}

	img, err := decodeFile(path)
	if err != nil {
		r.log.Warn("texture %s: %v (using placeholder)", key, err)
		return Placeholder, err
	}

	h, err := r.Add(key, img)
	if err != nil {
		r.log.Warn("texture %s: %v (using placeholder)", key, err)
		return Placeholder, err
	}
	r.log.Debug("texture %s: %dx%d from %s", key, r.textures[h].Width, r.textures[h].Height, path)
	return h, nil
}

// LoadDir loads each key as a file name relative to dir. Failures leave
// the key on the placeholder. It returns the handles by key and the
// number of failures.
func (r *Registry) LoadDir(dir string, keys []string) (map[string]Handle, int) {
	handles := make(map[string]Handle, len(keys))
	failed := 0
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, done := handles[key]; done {
			continue
		}
		h, err := r.Load(key, filepath.Join(dir, key))
		if err != nil {
			failed++
		}
		handles[key] = h
	}
	return handles, failed
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Add registers an already decoded image, downsampling it to the
// registry's maximum width.
func (r *Registry) Add(key string, img image.Image) (Handle, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Placeholder, ErrEmptyImage
	}

	if b.Dx() > r.maxWidth {
		h := max(1, b.Dy()*r.maxWidth/b.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, r.maxWidth, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
		b = dst.Bounds()
	}

	t := &Texture{Key: key, Width: b.Dx(), Height: b.Dy(), texels: make([]mgl32.Vec3, b.Dx()*b.Dy())}
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.texels[y*t.Width+x] = mgl32.Vec3{float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff}
		}
	}

	h := Handle(len(r.textures))
	r.textures = append(r.textures, t)
	r.byKey[key] = h
	return h, nil
}

// Lookup returns the handle registered under key.
func (r *Registry) Lookup(key string) (Handle, bool) {
	h, ok := r.byKey[key]
	return h, ok
}

// Get returns the texture for h, or nil for unknown handles.
func (r *Registry) Get(h Handle) *Texture {
	if int(h) >= len(r.textures) {
		return nil
	}
	return r.textures[h]
}

// Sample looks up (u, v) in texture h. ok is false for the placeholder
// and unknown handles, in which case the caller uses its base colour.
func (r *Registry) Sample(h Handle, u, v float32) (c mgl32.Vec3, ok bool) {
	if h == Placeholder || int(h) >= len(r.textures) {
		return mgl32.Vec3{1, 1, 1}, false
	}
	return r.textures[h].At(u, v), true
}

// Len returns the number of textures including the placeholder.
func (r *Registry) Len() int {
	return len(r.textures)
}
