// Package media defines the clip data model and the boundary to the
// external video-processing backend. The backend owns all pixel-level
// work (decode, resize, color conversion, tonemapping, overlays); this
// package specifies only the contract the rest of screengen programs
// against.
package media

import (
	"context"

	"screengen/internal/errors"
)

// Props holds raw per-frame metadata as reported by the backend. Values
// may arrive as integers, floats, strings, or raw bytes depending on the
// container and the backend version; colorspace.Describe normalizes them.
type Props map[string]any

// Canonical metadata keys.
const (
	PropMatrix    = "matrix"
	PropTransfer  = "transfer"
	PropPrimaries = "primaries"
	PropRange     = "range"

	// PropTonemapped carries the diagnostic color-processing marker stamped
	// after a successful tonemap.
	PropTonemapped = "tonemapped"
)

// KwArgs is a keyword-parameter set passed through to backend calls.
type KwArgs map[string]any

// Copy returns a shallow copy of the parameter set.
func (k KwArgs) Copy() KwArgs {
	out := make(KwArgs, len(k))
	for key, value := range k {
		out[key] = value
	}
	return out
}

// Clip is an ordered, finite, indexable sequence of frames with fixed
// dimensions. Clips are immutable: every transformation returns a new
// Clip value and frame pixels are only materialized when a frame is
// rendered.
type Clip interface {
	Width() int
	Height() int
	FrameCount() int

	// Props returns the first frame's metadata. Missing fields are simply
	// absent from the map; malformed values are returned as-is and
	// normalized by the caller.
	Props() (Props, error)
}

// Format identifies a display-ready pixel format requested from the backend.
type Format int

const (
	// FormatRGB48 is the 16-bit-per-channel intermediate representation
	// handed to the tonemapper.
	FormatRGB48 Format = iota
	// FormatRGB24 is the 8-bit display-ready output format.
	FormatRGB24
)

// String returns the backend-facing name of the format.
func (f Format) String() string {
	if f == FormatRGB48 {
		return "rgb48"
	}
	return "rgb24"
}

// ConvertSpec describes a color-managed format conversion. The tag-in
// fields, when non-nil, tell the backend how the input is encoded
// regardless of upstream tagging quirks.
type ConvertSpec struct {
	Format      Format
	Kernel      Kernel // resampling kernel driving the conversion
	Dither      string // e.g. "error_diffusion"; empty for none
	MatrixIn    *int
	TransferIn  *int
	PrimariesIn *int
	RangeIn     *int
}

// Backend is the external color/video-processing collaborator. Every
// operation returns a new Clip; implementations must not mutate inputs.
type Backend interface {
	// Load opens a media file through the named source loader, using
	// cachePath for the loader's index cache.
	Load(ctx context.Context, path, cachePath string) (Clip, error)

	// Trim returns the inclusive frame range [first, last] of the clip.
	Trim(c Clip, first, last int) (Clip, error)

	// Crop removes the given margins.
	Crop(c Clip, left, right, top, bottom int) (Clip, error)

	// Resize scales the clip to the target dimensions with the given
	// kernel. Extra options are passed through to the kernel untouched.
	Resize(c Clip, kernel Kernel, width, height int, opts KwArgs) (Clip, error)

	// Convert performs a color-managed format conversion.
	Convert(c Clip, spec ConvertSpec) (Clip, error)

	// SetProps returns a clip with the given metadata keys re-tagged.
	SetProps(c Clip, props Props) (Clip, error)

	// Overlay draws a title and per-frame info onto the clip.
	Overlay(c Clip, title string) (Clip, error)

	// RenderFrame materializes one frame of the clip to an image file.
	RenderFrame(ctx context.Context, c Clip, frame int, path string) error
}

// Tonemapper is the optional tonemap capability of a backend. HDR
// preparation requires it; its absence is a hard configuration error on
// the HDR path.
type Tonemapper interface {
	// Tonemap converts HDR luminance to an SDR range. The parameter set
	// uses the wire names in params.go; implementations that reject
	// specific parameters must report them through a ParamError so the
	// caller can relax the call.
	Tonemap(c Clip, params KwArgs) (Clip, error)
}

// LoaderName identifies a source loader filter.
type LoaderName string

// Supported source loaders.
const (
	LoaderFFMS2 LoaderName = "ffms2"
	LoaderLSMAS LoaderName = "lsmas"
)

// CacheSuffix returns the index-cache file suffix for a loader name.
// Unknown names fail with an UnknownLoaderError.
func CacheSuffix(name LoaderName) (string, error) {
	switch name {
	case LoaderFFMS2:
		return ".ffindex", nil
	case LoaderLSMAS:
		return ".lwi", nil
	default:
		return "", errors.NewUnknownLoaderError(string(name))
	}
}
