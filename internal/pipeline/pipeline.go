// Package pipeline composes clip preparation: crop, HDR classification,
// tonemap-or-convert, and the optional frame-info overlay, producing
// render-ready clips.
package pipeline

import (
	"fmt"

	"screengen/internal/colorspace"
	"screengen/internal/config"
	"screengen/internal/errors"
	"screengen/internal/geometry"
	"screengen/internal/logging"
	"screengen/internal/media"
	"screengen/internal/reporter"
	"screengen/internal/tonemap"
)

// Pipeline prepares batches of clips for rendering.
type Pipeline struct {
	backend  media.Backend
	settings config.Settings
	kernel   media.Kernel
	rep      reporter.Reporter
	log      *logging.Logger
}

// New creates a preparation pipeline. The kernel must already be parsed
// from the settings.
func New(backend media.Backend, settings config.Settings, kernel media.Kernel, rep reporter.Reporter, log *logging.Logger) *Pipeline {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if log == nil {
		log = logging.Global()
	}
	return &Pipeline{
		backend:  backend,
		settings: settings,
		kernel:   kernel,
		rep:      rep,
		log:      log,
	}
}

// Prepare crops every clip to the shared dimensions, classifies the batch
// as HDR or SDR from the first clip's metadata, tonemaps or converts each
// clip to display-ready output, and applies the frame-info overlay.
//
// Classification intentionally reads only the first clip: all clips in
// one comparison batch are assumed to share the source's dynamic range.
// Each clip may still independently fall back to SDR conversion when its
// own tonemap attempts fail.
func (p *Pipeline) Prepare(clips []media.Clip, crop geometry.Dimensions, titles []string, overlay bool) ([]media.Clip, error) {
	if len(clips) == 0 {
		return nil, errors.NewConfigError("no clips to prepare")
	}

	cropped, err := p.cropAll(clips, crop)
	if err != nil {
		return nil, err
	}

	hdr, err := p.classify(cropped[0])
	if err != nil {
		return nil, err
	}
	p.rep.Classification(hdr)

	prepared := make([]media.Clip, 0, len(cropped))
	if hdr {
		seq := tonemap.NewSequencer(p.backend, p.settings.Tonemap, p.kernel, p.rep, p.log)
		if err := seq.RequireBackend(); err != nil {
			return nil, err
		}
		for i, clip := range cropped {
			out, err := seq.Process(clip, i)
			if err != nil {
				return nil, err
			}
			prepared = append(prepared, out)
		}
	} else {
		seq := tonemap.NewSequencer(p.backend, p.settings.Tonemap, p.kernel, p.rep, p.log)
		for _, clip := range cropped {
			out, err := seq.ConvertSDR(clip)
			if err != nil {
				return nil, err
			}
			prepared = append(prepared, out)
		}
	}

	return p.applyOverlay(prepared, titles, overlay)
}

func (p *Pipeline) cropAll(clips []media.Clip, crop geometry.Dimensions) ([]media.Clip, error) {
	out := make([]media.Clip, 0, len(clips))
	for i, clip := range clips {
		src := geometry.Dimensions{Width: clip.Width(), Height: clip.Height()}
		g, err := geometry.ComputeCrop(src, crop, p.settings.CropModulus)
		if err != nil {
			return nil, err
		}

		message := g.Message(src)
		if i == 0 {
			p.rep.CropResult(reporter.CropSummary{Message: message})
		} else {
			p.rep.Verbose(fmt.Sprintf("clip %d: %s", i, message))
		}
		p.log.Debug("crop computed", "clip", i, "geometry", message)

		croppedClip, err := p.backend.Crop(clip, g.Left, g.Right, g.Top, g.Bottom)
		if err != nil {
			return nil, errors.NewRenderError(fmt.Sprintf("cropping clip %d", i), err)
		}
		out = append(out, croppedClip)
	}
	return out, nil
}

func (p *Pipeline) classify(first media.Clip) (bool, error) {
	props, err := first.Props()
	if err != nil {
		return false, errors.NewProbeError("reading first clip metadata", err)
	}
	return colorspace.Describe(props).IsHDR(), nil
}

func (p *Pipeline) applyOverlay(clips []media.Clip, titles []string, overlay bool) ([]media.Clip, error) {
	titled := titles != nil
	if titled && len(titles) != len(clips) {
		p.rep.Warning(fmt.Sprintf("number of titles (%d) does not match number of clips (%d), proceeding without titles",
			len(titles), len(clips)))
		titled = false
	}

	if !overlay {
		p.rep.Verbose("frame overlay disabled")
		return clips, nil
	}

	out := make([]media.Clip, 0, len(clips))
	for i, clip := range clips {
		title := fmt.Sprintf("Clip %d", i)
		if titled {
			title = titles[i]
		}
		annotated, err := p.backend.Overlay(clip, title)
		if err != nil {
			return nil, errors.NewRenderError(fmt.Sprintf("applying overlay to clip %d", i), err)
		}
		out = append(out, annotated)
	}
	return out, nil
}
