// Package testsupport provides scriptable fakes for the media backend,
// used by unit tests across the preparation pipeline.
package testsupport

import (
	"context"
	"fmt"
	"os"
	"sync"

	"screengen/internal/media"
)

// Clip is an in-memory media.Clip that records the operations applied to
// it. Transformations return copies; the original is never mutated.
type Clip struct {
	W, H     int
	Frames   int
	Meta     media.Props
	PropsErr error
	Ops      []string
}

// NewClip creates a fake clip with the given geometry and metadata.
func NewClip(w, h, frames int, meta media.Props) *Clip {
	if meta == nil {
		meta = media.Props{}
	}
	return &Clip{W: w, H: h, Frames: frames, Meta: meta}
}

func (c *Clip) Width() int      { return c.W }
func (c *Clip) Height() int     { return c.H }
func (c *Clip) FrameCount() int { return c.Frames }

func (c *Clip) Props() (media.Props, error) {
	if c.PropsErr != nil {
		return nil, c.PropsErr
	}
	out := make(media.Props, len(c.Meta))
	for k, v := range c.Meta {
		out[k] = v
	}
	return out, nil
}

// HasOp reports whether the named operation was applied to this clip.
func (c *Clip) HasOp(name string) bool {
	for _, op := range c.Ops {
		if op == name {
			return true
		}
	}
	return false
}

func (c *Clip) derive(op string, mutate func(*Clip)) *Clip {
	next := &Clip{
		W:      c.W,
		H:      c.H,
		Frames: c.Frames,
		Meta:   make(media.Props, len(c.Meta)),
		Ops:    append(append([]string(nil), c.Ops...), op),
	}
	for k, v := range c.Meta {
		next.Meta[k] = v
	}
	if mutate != nil {
		mutate(next)
	}
	return next
}

// Backend is a scriptable media.Backend without tonemap capability.
type Backend struct {
	mu sync.Mutex

	// Clips maps file paths to the clips Load returns.
	Clips map[string]*Clip

	// LoadErr, when set, fails every Load call.
	LoadErr error

	// ConvertErr, when set, fails every Convert call.
	ConvertErr error

	// RenderErr, when set, fails every RenderFrame call.
	RenderErr error

	// Rendered records the output paths passed to RenderFrame.
	Rendered []string

	// RenderedClips records the clip passed with each RenderFrame call,
	// in the same order as Rendered.
	RenderedClips []*Clip
}

func asFake(c media.Clip) *Clip {
	fake, ok := c.(*Clip)
	if !ok {
		panic(fmt.Sprintf("testsupport backend received foreign clip %T", c))
	}
	return fake
}

func (b *Backend) Load(_ context.Context, path, _ string) (media.Clip, error) {
	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	clip, ok := b.Clips[path]
	if !ok {
		return nil, fmt.Errorf("no scripted clip for %s", path)
	}
	return clip, nil
}

func (b *Backend) Trim(c media.Clip, first, last int) (media.Clip, error) {
	if first < 0 || last < first {
		return nil, fmt.Errorf("invalid trim range [%d, %d]", first, last)
	}
	return asFake(c).derive(fmt.Sprintf("trim(%d,%d)", first, last), func(next *Clip) {
		next.Frames = last - first + 1
	}), nil
}

func (b *Backend) Crop(c media.Clip, left, right, top, bottom int) (media.Clip, error) {
	return asFake(c).derive(fmt.Sprintf("crop(%d,%d,%d,%d)", left, right, top, bottom), func(next *Clip) {
		next.W -= left + right
		next.H -= top + bottom
	}), nil
}

func (b *Backend) Resize(c media.Clip, kernel media.Kernel, width, height int, _ media.KwArgs) (media.Clip, error) {
	return asFake(c).derive(fmt.Sprintf("resize(%s,%dx%d)", kernel, width, height), func(next *Clip) {
		next.W = width
		next.H = height
	}), nil
}

func (b *Backend) Convert(c media.Clip, spec media.ConvertSpec) (media.Clip, error) {
	if b.ConvertErr != nil {
		return nil, b.ConvertErr
	}
	return asFake(c).derive(fmt.Sprintf("convert(%s)", spec.Format), nil), nil
}

func (b *Backend) SetProps(c media.Clip, props media.Props) (media.Clip, error) {
	return asFake(c).derive("setprops", func(next *Clip) {
		for k, v := range props {
			next.Meta[k] = v
		}
	}), nil
}

func (b *Backend) Overlay(c media.Clip, title string) (media.Clip, error) {
	return asFake(c).derive(fmt.Sprintf("overlay(%s)", title), nil), nil
}

func (b *Backend) RenderFrame(_ context.Context, c media.Clip, frame int, path string) error {
	if b.RenderErr != nil {
		return b.RenderErr
	}
	b.mu.Lock()
	b.Rendered = append(b.Rendered, path)
	b.RenderedClips = append(b.RenderedClips, asFake(c))
	b.mu.Unlock()
	return os.WriteFile(path, []byte(fmt.Sprintf("frame %d", frame)), 0o644)
}

// RenderedPaths returns a copy of the recorded render output paths.
func (b *Backend) RenderedPaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.Rendered...)
}

// TonemapBackend is a Backend with a scriptable tonemap capability.
type TonemapBackend struct {
	Backend

	// Script decides the outcome of each tonemap call; call numbering
	// starts at 1. A nil Script succeeds on every call.
	Script func(call int, params media.KwArgs) error

	// Calls records the parameter set of every tonemap invocation.
	Calls []media.KwArgs
}

func (b *TonemapBackend) Tonemap(c media.Clip, params media.KwArgs) (media.Clip, error) {
	b.Calls = append(b.Calls, params.Copy())
	if b.Script != nil {
		if err := b.Script(len(b.Calls), params); err != nil {
			return nil, err
		}
	}
	return asFake(c).derive("tonemap", nil), nil
}
