package stills

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// writeFrames creates a directory of solid-color PNG frames.
func writeFrames(t *testing.T, w, h, count int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < count; i++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Set(x, y, color.RGBA{R: uint8(i * 40), G: 128, B: 64, A: 255})
			}
		}
		f, err := os.Create(filepath.Join(dir, filepath.Base(dir)+string(rune('0'+i))+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	return dir
}

func load(t *testing.T, dir string) media.Clip {
	t.Helper()
	clip, err := New().Load(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return clip
}

func TestLoadReadsGeometry(t *testing.T) {
	dir := writeFrames(t, 64, 48, 3)
	clip := load(t, dir)

	if clip.Width() != 64 || clip.Height() != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", clip.Width(), clip.Height())
	}
	if clip.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", clip.FrameCount())
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := New().Load(context.Background(), t.TempDir(), "")
	if !errors.IsKind(err, errors.KindNoFilesFound) {
		t.Errorf("error = %v, want NoFilesFound", err)
	}
}

func TestCropResizeRender(t *testing.T) {
	b := New()
	dir := writeFrames(t, 64, 48, 2)
	clip := load(t, dir)

	cropped, err := b.Crop(clip, 2, 2, 4, 4)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if cropped.Width() != 60 || cropped.Height() != 40 {
		t.Errorf("cropped = %dx%d, want 60x40", cropped.Width(), cropped.Height())
	}

	resized, err := b.Resize(cropped, media.KernelSpline36, 30, 20, nil)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "1a.png")
	if err := b.RenderFrame(context.Background(), resized, 1, out); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 20 {
		t.Errorf("rendered = %dx%d, want 30x20", cfg.Width, cfg.Height)
	}
}

func TestTrimWindowsFrames(t *testing.T) {
	b := New()
	clip := load(t, writeFrames(t, 16, 16, 5))

	trimmed, err := b.Trim(clip, 1, 3)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	if trimmed.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", trimmed.FrameCount())
	}

	if _, err := b.Trim(clip, 3, 10); !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("out-of-range trim error = %v, want configuration error", err)
	}
}

func TestConvertRetags(t *testing.T) {
	b := New()
	clip := load(t, writeFrames(t, 16, 16, 1))

	matrix, rng := 0, 0
	converted, err := b.Convert(clip, media.ConvertSpec{
		Format:   media.FormatRGB48,
		Kernel:   media.KernelSpline36,
		MatrixIn: &matrix,
		RangeIn:  &rng,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	props, _ := converted.Props()
	if props[media.PropMatrix] != 0 || props[media.PropRange] != 0 {
		t.Errorf("props = %v, want matrix=0 range=0", props)
	}
	srcProps, _ := clip.Props()
	if _, ok := srcProps[media.PropMatrix]; ok {
		t.Error("Convert mutated the source clip's props")
	}
}

func TestNoTonemapCapability(t *testing.T) {
	var backend media.Backend = New()
	if _, ok := backend.(media.Tonemapper); ok {
		t.Fatal("stills backend must not advertise tonemap capability")
	}
}

func TestUnknownKernel(t *testing.T) {
	b := New()
	clip := load(t, writeFrames(t, 16, 16, 1))
	_, err := b.Resize(clip, media.Kernel("sinc"), 8, 8, nil)
	if !errors.IsKind(err, errors.KindUnknownKernel) {
		t.Errorf("error = %v, want UnknownKernel", err)
	}
}

var _ media.Backend = (*Backend)(nil)
