// Package tonemap orchestrates HDR-to-SDR conversion against the external
// backend. Backend tonemap implementations vary in which parameters they
// accept across versions, so capability discovery is attempt-and-relax: a
// bounded plan of attempts, each of which drops parameters the backend
// rejects by name, with a logged degradation to direct SDR conversion when
// every attempt fails.
package tonemap

import (
	"fmt"

	"screengen/internal/colorspace"
	"screengen/internal/config"
	"screengen/internal/errors"
	"screengen/internal/logging"
	"screengen/internal/media"
	"screengen/internal/reporter"
)

// Attempt stage names, tried strictly in this order.
const (
	StageHinted    = "hinted"
	StageBaseline  = "baseline"
	StageForcedPQ  = "forced-pq"
	maxPlanEntries = 3
)

// Attempt is one parameter set to try against the backend.
type Attempt struct {
	Stage  string
	Params media.KwArgs
}

// Plan is an ordered sequence of tonemap attempts, at most three: the
// hinted set when a source-colorspace hint was deducible, the un-hinted
// baseline, and a forced-PQ last resort for backends that fail on
// ambiguous source hints.
type Plan []Attempt

// BuildPlan assembles the attempt plan for one clip from the settings and
// an optional deduced source-colorspace hint.
func BuildPlan(settings config.TonemapSettings, hint *int) Plan {
	base := baseParams(settings)

	plan := make(Plan, 0, maxPlanEntries)
	if hint != nil {
		hinted := base.Copy()
		hinted[media.ParamSrcCSP] = *hint
		plan = append(plan, Attempt{Stage: StageHinted, Params: hinted})
	}
	plan = append(plan, Attempt{Stage: StageBaseline, Params: base.Copy()})

	forced := base.Copy()
	forced[media.ParamSrcCSP] = media.SrcCSPPQ
	plan = append(plan, Attempt{Stage: StageForcedPQ, Params: forced})

	return plan
}

func baseParams(settings config.TonemapSettings) media.KwArgs {
	return media.KwArgs{
		media.ParamDstCSP:               0,
		media.ParamDstPrim:              1,
		media.ParamDstMax:               settings.DstMax,
		media.ParamDstMin:               settings.DstMin,
		media.ParamDynamicPeakDetection: settings.DynamicPeakDetection,
		media.ParamGamutMapping:         settings.GamutMapping,
		media.ParamToneMappingFunction:  settings.Function,
		media.ParamUseDoVi:              true,
		media.ParamSmoothingPeriod:      settings.SmoothingPeriod,
		media.ParamMinDynamicPeak:       settings.MinDynamicPeak,
		media.ParamSceneThresholdLow:    settings.SceneThresholdLow,
		media.ParamSceneThresholdHigh:   settings.SceneThresholdHigh,
	}
}

// Sequencer runs the HDR preparation path for clips. The suppression set
// of backend-rejected parameter names is per-sequencer state: independent
// sequencers share nothing.
type Sequencer struct {
	backend    media.Backend
	tonemapper media.Tonemapper
	settings   config.TonemapSettings
	kernel     media.Kernel
	rep        reporter.Reporter
	log        *logging.Logger
	suppressed map[string]struct{}
}

// NewSequencer creates a sequencer over the given backend. The backend's
// tonemap capability is probed by interface assertion; its absence is
// surfaced by RequireBackend.
func NewSequencer(backend media.Backend, settings config.TonemapSettings, kernel media.Kernel, rep reporter.Reporter, log *logging.Logger) *Sequencer {
	tonemapper, _ := backend.(media.Tonemapper)
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if log == nil {
		log = logging.Global()
	}
	return &Sequencer{
		backend:    backend,
		tonemapper: tonemapper,
		settings:   settings,
		kernel:     kernel,
		rep:        rep,
		log:        log,
		suppressed: make(map[string]struct{}),
	}
}

// RequireBackend fails fast when HDR content was detected but the backend
// cannot tonemap. HDR without a tonemap backend is a configuration error,
// not a silent pass-through.
func (s *Sequencer) RequireBackend() error {
	if s.tonemapper == nil {
		return errors.NewBackendUnavailableError()
	}
	return nil
}

// Process runs the full HDR path for one clip: normalize to a 16-bit
// representation, attempt the plan, stamp the diagnostic marker, finalize
// to 8-bit. Any failure anywhere in the HDR branch degrades to direct SDR
// conversion of the original clip; the fallback is always logged. The
// returned error is only non-nil when even the fallback conversion fails.
func (s *Sequencer) Process(clip media.Clip, clipIndex int) (media.Clip, error) {
	tonemapped, err := s.processHDR(clip, clipIndex)
	if err == nil {
		return tonemapped, nil
	}

	reason := err.Error()
	s.log.Warn("tonemap path abandoned", "clip", clipIndex, "reason", reason)
	s.rep.TonemapFallback(reporter.TonemapFallbackInfo{ClipIndex: clipIndex, Reason: reason})

	return s.ConvertSDR(clip)
}

func (s *Sequencer) processHDR(clip media.Clip, clipIndex int) (media.Clip, error) {
	if err := s.RequireBackend(); err != nil {
		return nil, err
	}

	props, err := clip.Props()
	if err != nil {
		return nil, errors.NewTonemapError("reading frame metadata", err)
	}
	desc := colorspace.Describe(props)

	normalized, err := s.normalize(clip, desc)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(s.settings, desc.SourceHint())

	var lastErr error
	for i, attempt := range plan {
		result, attemptErr := s.invoke(normalized, attempt.Params)
		if attemptErr != nil {
			lastErr = attemptErr
			s.log.Warn("tonemap attempt failed",
				"clip", clipIndex, "attempt", i+1, "stage", attempt.Stage, "error", attemptErr)
			s.rep.TonemapAttemptFailed(reporter.TonemapAttemptInfo{
				ClipIndex: clipIndex,
				Attempt:   i + 1,
				Stage:     attempt.Stage,
				Reason:    attemptErr.Error(),
			})
			continue
		}
		return s.finalize(result, clipIndex)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no tonemap attempts were planned")
	}
	return nil, errors.NewTonemapError("all tonemap attempts exhausted", lastErr)
}

// normalize converts the clip to a 16-bit-per-channel representation and
// re-tags matrix and range to defined neutral values while preserving
// transfer and primaries, so the backend receives unambiguous input
// regardless of upstream tagging quirks.
func (s *Sequencer) normalize(clip media.Clip, desc colorspace.Descriptor) (media.Clip, error) {
	rgb48, err := s.backend.Convert(clip, media.ConvertSpec{
		Format:      media.FormatRGB48,
		Kernel:      s.kernel,
		MatrixIn:    desc.Matrix,
		TransferIn:  desc.Transfer,
		PrimariesIn: desc.Primaries,
		RangeIn:     desc.Range,
	})
	if err != nil {
		return nil, errors.NewTonemapError("converting to 16-bit representation", err)
	}

	retag := media.Props{
		media.PropMatrix: colorspace.MatrixRGB,
		media.PropRange:  colorspace.RangeFull,
	}
	if desc.Transfer != nil {
		retag[media.PropTransfer] = *desc.Transfer
	}
	if desc.Primaries != nil {
		retag[media.PropPrimaries] = *desc.Primaries
	}

	normalized, err := s.backend.SetProps(rgb48, retag)
	if err != nil {
		return nil, errors.NewTonemapError("re-tagging normalized clip", err)
	}
	return normalized, nil
}

// invoke calls the backend tonemapper with the given parameter set,
// relaxing the call when the backend rejects parameters by name: rejected
// names are dropped, recorded in the suppression set, and the same attempt
// is retried. Errors that identify no parameter names end the attempt.
func (s *Sequencer) invoke(clip media.Clip, params media.KwArgs) (media.Clip, error) {
	filtered := make(media.KwArgs, len(params))
	for key, value := range params {
		if value == nil {
			continue
		}
		if _, drop := s.suppressed[key]; drop {
			continue
		}
		filtered[key] = value
	}

	for {
		result, err := s.tonemapper.Tonemap(clip, filtered)
		if err == nil {
			return result, nil
		}

		var invalid []string
		for _, name := range media.UnsupportedParams(err) {
			if _, present := filtered[name]; present {
				invalid = append(invalid, name)
			}
		}
		if len(invalid) == 0 {
			return nil, err
		}

		for _, name := range invalid {
			delete(filtered, name)
			s.suppressed[name] = struct{}{}
		}
		s.log.Warn("ignoring unsupported tonemap parameters", "params", invalid)
	}
}

// finalize stamps the diagnostic color-processing marker and converts to
// 8-bit display-ready output.
func (s *Sequencer) finalize(clip media.Clip, clipIndex int) (media.Clip, error) {
	marker := fmt.Sprintf("placebo:%s,dpd=%t,dst_max=%g",
		s.settings.Function, s.settings.DynamicPeakDetection, s.settings.DstMax)
	stamped, err := s.backend.SetProps(clip, media.Props{media.PropTonemapped: marker})
	if err != nil {
		return nil, errors.NewTonemapError("stamping tonemap marker", err)
	}

	out, err := s.backend.Convert(stamped, media.ConvertSpec{
		Format: media.FormatRGB24,
		Kernel: s.kernel,
		Dither: "error_diffusion",
	})
	if err != nil {
		return nil, errors.NewTonemapError("finalizing to 8-bit output", err)
	}

	s.rep.TonemapApplied(reporter.TonemapAppliedInfo{
		ClipIndex:   clipIndex,
		Function:    s.settings.Function,
		DynamicPeak: s.settings.DynamicPeakDetection,
		DstMax:      s.settings.DstMax,
	})
	return out, nil
}

// ConvertSDR converts a clip directly from its original representation to
// 8-bit display-ready output without tonemapping.
func (s *Sequencer) ConvertSDR(clip media.Clip) (media.Clip, error) {
	props, err := clip.Props()
	if err != nil {
		// Conversion without tag-ins is still preferable to no output.
		props = media.Props{}
	}
	desc := colorspace.Describe(props)

	out, err := s.backend.Convert(clip, media.ConvertSpec{
		Format:      media.FormatRGB24,
		Kernel:      s.kernel,
		Dither:      "error_diffusion",
		MatrixIn:    desc.Matrix,
		TransferIn:  desc.Transfer,
		PrimariesIn: desc.Primaries,
		RangeIn:     desc.Range,
	})
	if err != nil {
		return nil, errors.NewTonemapError("converting to SDR output", err)
	}
	return out, nil
}
