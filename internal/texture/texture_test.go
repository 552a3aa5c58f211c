package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/litescript/ls-orrery/internal/logging"
)

// quadrants returns a 2x2 image: red top-left, green top-right, blue
// bottom-left, white bottom-right.
func quadrants() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSampleOrientation(t *testing.T) {
	r := NewRegistry(0, nil)
	h, err := r.Add("q", quadrants())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		u, v float32
		want mgl32.Vec3
	}{
		{"top-left", 0.25, 0.75, mgl32.Vec3{1, 0, 0}},
		{"top-right", 0.75, 0.75, mgl32.Vec3{0, 1, 0}},
		{"bottom-left", 0.25, 0.25, mgl32.Vec3{0, 0, 1}},
		{"bottom-right", 0.75, 0.25, mgl32.Vec3{1, 1, 1}},
		{"wrap u", 1.25, 0.75, mgl32.Vec3{1, 0, 0}},
		{"wrap negative", -0.25, -0.75, mgl32.Vec3{1, 1, 1}},
		{"v=1 edge", 0.25, 1, mgl32.Vec3{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Sample(h, tt.u, tt.v)
			if !ok {
				t.Fatal("expected a real texture")
			}
			if !got.ApproxEqual(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	r := NewRegistry(0, nil)
	if r.Len() != 1 {
		t.Fatalf("expected only the placeholder, got %d", r.Len())
	}
	if _, ok := r.Sample(Placeholder, 0.5, 0.5); ok {
		t.Error("placeholder should report ok=false")
	}
	if _, ok := r.Sample(Handle(42), 0.5, 0.5); ok {
		t.Error("unknown handle should report ok=false")
	}
	if r.Get(Handle(42)) != nil {
		t.Error("expected nil for unknown handle")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "earth.png", quadrants())

	r := NewRegistry(0, nil)
	h, err := r.Load("earth.png", path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h == Placeholder {
		t.Fatal("expected a real handle")
	}

	again, err := r.Load("earth.png", "/does/not/matter")
	if err != nil || again != h {
		t.Errorf("expected cached handle %d, got %d (%v)", h, again, err)
	}
	if got, ok := r.Lookup("earth.png"); !ok || got != h {
		t.Errorf("Lookup: expected %d, got %d", h, got)
	}
}

func TestLoadFailureIsRecoverable(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelWarn)
	log.SetOutput(&buf)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(0, log)
	tests := []string{filepath.Join(dir, "missing.png"), bad}
	for _, path := range tests {
		h, err := r.Load(filepath.Base(path), path)
		if err == nil {
			t.Errorf("%s: expected error", path)
		}
		if h != Placeholder {
			t.Errorf("%s: expected placeholder, got %d", path, h)
		}
	}

	if !strings.Contains(buf.String(), "using placeholder") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
	if r.Len() != 1 {
		t.Errorf("failed loads should not register textures, got %d", r.Len())
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", quadrants())

	r := NewRegistry(0, nil)
	handles, failed := r.LoadDir(dir, []string{"a.png", "", "a.png", "b.png"})
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
	if handles["a.png"] == Placeholder {
		t.Error("expected a.png to load")
	}
	if h, ok := handles["b.png"]; !ok || h != Placeholder {
		t.Errorf("expected b.png on the placeholder, got %d (%v)", h, ok)
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}

	r := NewRegistry(16, nil)
	h, err := r.Add("big", src)
	if err != nil {
		t.Fatal(err)
	}
	tex := r.Get(h)
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("expected 16x8, got %dx%d", tex.Width, tex.Height)
	}
	c, _ := r.Sample(h, 0.5, 0.5)
	if !c.ApproxEqualThreshold(mgl32.Vec3{0, 128.0 / 255, 1}, 0.01) {
		t.Errorf("unexpected colour after scaling %v", c)
	}
}

func TestEmptyImage(t *testing.T) {
	r := NewRegistry(0, nil)
	_, err := r.Add("empty", image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}
