// Package geometry normalizes clip geometry before preparation: it infers
// whether a source must be rescaled to match its encodes and computes
// modulus-aligned symmetric crop margins.
package geometry

import (
	"fmt"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// AspectRatio returns width divided by height.
func (d Dimensions) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Standard resolution presets.
var presets = map[string]Dimensions{
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"1440p": {2560, 1440},
	"2160p": {3840, 2160},
}

// PresetDimensions returns the dimensions of a standard resolution such
// as "1080p".
func PresetDimensions(name string) (Dimensions, error) {
	d, ok := presets[name]
	if !ok {
		return Dimensions{}, errors.NewConfigError(fmt.Sprintf("unknown resolution preset %q", name))
	}
	return d, nil
}

// resizeTolerance is the width delta below which a source and encode are
// considered the same scale. Real-world encode pairs differ by clean
// integer factors even after column cropping, so exact ratio equality is
// too strict; the tolerance admits modest cropping while rejecting
// unrelated dimension pairs.
const resizeTolerance = 600

// ScaleDirection indicates which way a source must be rescaled.
type ScaleDirection int

const (
	// ScaleNone means the source already matches the encode scale.
	ScaleNone ScaleDirection = iota
	// ScaleDown means the source is larger than the encodes.
	ScaleDown
	// ScaleUp means the source is smaller than the encodes.
	ScaleUp
)

// String returns a human-readable scale direction.
func (s ScaleDirection) String() string {
	switch s {
	case ScaleDown:
		return "Downscale"
	case ScaleUp:
		return "Upscale"
	default:
		return "No resize"
	}
}

// ResizeDecision is the outcome of resize inference.
type ResizeDecision struct {
	Direction ScaleDirection
	Source    Dimensions
	Reference Dimensions
	Target    Dimensions
	Kernel    media.Kernel
}

// Required reports whether the source must be rescaled.
func (d ResizeDecision) Required() bool {
	return d.Direction != ScaleNone
}

// Message returns the human-readable summary of the decision.
func (d ResizeDecision) Message() string {
	if !d.Required() {
		return fmt.Sprintf("No resize needed, source %s within tolerance of encode %s", d.Source, d.Reference)
	}
	return fmt.Sprintf("%s detected. Source dimensions: %s, encode dimensions: %s, target: %s, resizing kernel: %s",
		d.Direction, d.Source, d.Reference, d.Target, d.Kernel)
}

// InferResize decides whether the source must be rescaled to match the
// encodes, and to which standard resolution. The first encode is the
// reference; supplying encodes with differing aspect ratios is a
// configuration error because the target cannot be inferred unambiguously.
func InferResize(source Dimensions, encodes []Dimensions, kernel media.Kernel) (ResizeDecision, error) {
	if len(encodes) == 0 {
		return ResizeDecision{}, errors.NewConfigError("resize inference requires at least one encode")
	}

	if len(encodes) > 1 {
		first := encodes[0].AspectRatio()
		for _, e := range encodes[1:] {
			if e.AspectRatio() != first {
				return ResizeDecision{}, errors.NewConfigError("inconsistent aspect ratios across encodes")
			}
		}
	}

	ref := encodes[0]
	decision := ResizeDecision{
		Direction: ScaleNone,
		Source:    source,
		Reference: ref,
		Kernel:    kernel,
	}

	var target string
	switch {
	case source.Width-ref.Width > resizeTolerance:
		decision.Direction = ScaleDown
		switch source.Width / ref.Width {
		case 2:
			target = "1080p"
		case 1, 3:
			target = "720p"
		default:
			return ResizeDecision{}, errors.NewAmbiguousRatioError("downscale", ref.Width, ref.Height)
		}
	case ref.Width-source.Width > resizeTolerance:
		decision.Direction = ScaleUp
		switch ref.Width / source.Width {
		case 2, 3:
			target = "2160p"
		case 1:
			target = "1080p"
		default:
			return ResizeDecision{}, errors.NewAmbiguousRatioError("upscale", ref.Width, ref.Height)
		}
	}

	if target != "" {
		dims, err := PresetDimensions(target)
		if err != nil {
			return ResizeDecision{}, err
		}
		decision.Target = dims
	}
	return decision, nil
}
