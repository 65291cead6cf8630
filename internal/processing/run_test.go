package processing

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"screengen/internal/config"
	"screengen/internal/errors"
	"screengen/internal/frames"
	"screengen/internal/media"
	"screengen/internal/reporter"
	"screengen/internal/tags"
	"screengen/internal/testsupport"
)

func testBackend(clips map[string]*testsupport.Clip) *testsupport.Backend {
	return &testsupport.Backend{Clips: clips}
}

type errorRecorder struct {
	reporter.NullReporter
	errors []reporter.ReporterError
}

func (r *errorRecorder) Error(err reporter.ReporterError) {
	r.errors = append(r.errors, err)
}

func TestRunEmitsErrorEventOnFailure(t *testing.T) {
	rec := &errorRecorder{}

	_, err := Run(context.Background(), testBackend(nil), config.Default(), Request{
		Source:    "src.mkv",
		OutputDir: "out",
	}, rec, nil)
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("error = %v, want configuration error", err)
	}

	if len(rec.errors) != 1 {
		t.Fatalf("got %d error events, want 1", len(rec.errors))
	}
	event := rec.errors[0]
	if event.Title != errors.KindConfig.String() {
		t.Errorf("event title = %q, want %q", event.Title, errors.KindConfig.String())
	}
	if event.Message != err.Error() {
		t.Errorf("event message = %q, want %q", event.Message, err.Error())
	}
	if event.Suggestion == "" {
		t.Error("configuration errors should carry a suggestion")
	}
}

func TestRunEmitsNoErrorEventOnSuccess(t *testing.T) {
	rec := &errorRecorder{}
	backend := testBackend(map[string]*testsupport.Clip{
		"src.mkv": testsupport.NewClip(1920, 800, 1000, nil),
	})

	_, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Frames:    []int{10},
		OutputDir: t.TempDir(),
	}, rec, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rec.errors) != 0 {
		t.Errorf("got %d error events on success, want 0", len(rec.errors))
	}
}

func TestRunSourceWithTestEncode(t *testing.T) {
	// Source 3840x1600, encode 1920x800: width difference 1920 with an
	// exact ratio of 2, so the source downscales to 1080p before both
	// clips crop to the encode's dimensions.
	backend := testBackend(map[string]*testsupport.Clip{
		"src.mkv": testsupport.NewClip(3840, 1600, 10000, nil),
		"t1.mkv":  testsupport.NewClip(1920, 800, 10000, nil),
	})
	outDir := t.TempDir()

	result, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Encodes:   []string{"t1.mkv"},
		Frames:    []int{100, 250},
		OutputDir: outDir,
		Overlay:   true,
		Titles:    []string{"Source", "Test 1"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Screenshots != 4 {
		t.Errorf("Screenshots = %d, want 4", result.Screenshots)
	}
	wantTags := tags.TagSet{"a", "b"}
	if len(result.Tags) != 2 || result.Tags[0] != "a" || result.Tags[1] != "b" {
		t.Errorf("Tags = %v, want %v", result.Tags, wantTags)
	}

	var names []string
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".png" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	want := []string{"100a.png", "100b.png", "250a.png", "250b.png"}
	for i := range want {
		if i >= len(names) || names[i] != want[i] {
			t.Fatalf("rendered files = %v, want %v", names, want)
		}
	}

	rendered := backend.RenderedPaths()
	if len(rendered) != 4 {
		t.Fatalf("rendered %d frames, want 4", len(rendered))
	}
}

func TestRunResizesSourceOnly(t *testing.T) {
	source := testsupport.NewClip(3840, 1600, 10000, nil)
	encode := testsupport.NewClip(1920, 800, 10000, nil)
	backend := testBackend(map[string]*testsupport.Clip{"src.mkv": source, "t1.mkv": encode})

	_, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Encodes:   []string{"t1.mkv"},
		Frames:    []int{10},
		OutputDir: t.TempDir(),
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(backend.RenderedClips) != 2 {
		t.Fatalf("rendered %d clips, want 2", len(backend.RenderedClips))
	}
	for i, path := range backend.Rendered {
		clip := backend.RenderedClips[i]
		resized := clip.HasOp("resize(spline36,1920x1080)")
		if filepath.Base(path) == "10a.png" && !resized {
			t.Errorf("source clip ops = %v, want downscale to 1920x1080", clip.Ops)
		}
		if filepath.Base(path) == "10b.png" && resized {
			t.Errorf("encode clip ops = %v, should not be resized", clip.Ops)
		}
	}
}

func TestRunOffsetShiftsSourceFrames(t *testing.T) {
	backend := testBackend(map[string]*testsupport.Clip{
		"src.mkv": testsupport.NewClip(1920, 800, 10000, nil),
		"t1.mkv":  testsupport.NewClip(1920, 800, 10000, nil),
	})
	outDir := t.TempDir()

	_, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Encodes:   []string{"t1.mkv"},
		Frames:    []int{100},
		Offset:    24,
		OutputDir: outDir,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, want := range []string{"124a.png", "100b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, want)); err != nil {
			t.Errorf("expected %s to exist: %v", want, err)
		}
	}
}

func TestRunRandomFrames(t *testing.T) {
	backend := testBackend(map[string]*testsupport.Clip{
		"src.mkv": testsupport.NewClip(1920, 800, 50000, nil),
		"t1.mkv":  testsupport.NewClip(1920, 800, 2000, nil),
	})

	result, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Encodes:   []string{"t1.mkv"},
		Random:    &frames.RandomRange{Start: 100, Stop: 30000, Count: 10},
		OutputDir: t.TempDir(),
		Rand:      rand.New(rand.NewSource(7)),
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Frames) != 10 {
		t.Fatalf("selected %d frames, want 10", len(result.Frames))
	}
	// Selection is bounded by the encode's frame count, not the source's.
	for _, f := range result.Frames {
		if f < 100 || f >= 2000-5 {
			t.Errorf("frame %d outside [100, 1995)", f)
		}
	}
	if result.Screenshots != 20 {
		t.Errorf("Screenshots = %d, want 20", result.Screenshots)
	}
}

func TestRunTrimRequiresSource(t *testing.T) {
	backend := testBackend(map[string]*testsupport.Clip{
		"t1.mkv": testsupport.NewClip(1920, 800, 1000, nil),
	})

	_, err := Run(context.Background(), backend, config.Default(), Request{
		Encodes:   []string{"t1.mkv"},
		Frames:    []int{10},
		Trim:      &frames.TrimRange{Start: 0, End: 100},
		OutputDir: t.TempDir(),
	}, nil, nil)
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("error = %v, want configuration error", err)
	}
}

func TestRunValidation(t *testing.T) {
	backend := testBackend(nil)
	tests := []struct {
		name string
		req  Request
	}{
		{"no files", Request{Frames: []int{1}, OutputDir: "out"}},
		{"no frames", Request{Source: "src.mkv", OutputDir: "out"}},
		{"frames and random", Request{
			Source: "src.mkv", Frames: []int{1},
			Random: &frames.RandomRange{Start: 0, Stop: 10, Count: 1}, OutputDir: "out",
		}},
		{"no output dir", Request{Source: "src.mkv", Frames: []int{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), backend, config.Default(), tt.req, nil, nil)
			if !errors.IsKind(err, errors.KindConfig) {
				t.Errorf("error = %v, want configuration error", err)
			}
		})
	}
}

func TestRunLockedDirectoryFails(t *testing.T) {
	backend := testBackend(map[string]*testsupport.Clip{
		"src.mkv": testsupport.NewClip(1920, 800, 1000, nil),
	})
	outDir := t.TempDir()

	lock := tags.NewRunLock(outDir)
	if err := lock.Acquire(); err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	_, err := Run(context.Background(), backend, config.Default(), Request{
		Source:    "src.mkv",
		Frames:    []int{10},
		OutputDir: outDir,
	}, nil, nil)
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("error = %v, want configuration error for locked directory", err)
	}
}

var _ media.Backend = (*testsupport.Backend)(nil)
