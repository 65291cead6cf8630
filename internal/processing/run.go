// Package processing orchestrates a full screenshot run: load, trim,
// resize inference, clip preparation, tag allocation, and rendering.
package processing

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"screengen/internal/colorspace"
	"screengen/internal/config"
	"screengen/internal/errors"
	"screengen/internal/frames"
	"screengen/internal/geometry"
	"screengen/internal/logging"
	"screengen/internal/media"
	"screengen/internal/pipeline"
	"screengen/internal/render"
	"screengen/internal/reporter"
	"screengen/internal/tags"
)

// Request describes one screenshot run. Paths are resolved; discovery
// and title defaulting happen in the CLI layer.
type Request struct {
	// Source is the source clip's path; empty when only encodes are
	// compared against each other.
	Source  string
	Encodes []string

	// Titles label the clips in order, source first. Empty means
	// positional labels.
	Titles []string

	// Crop is the shared output dimensions. Nil defaults to the first
	// encode's dimensions (or the source's when there are no encodes).
	Crop *geometry.Dimensions

	// Frames lists explicit frame numbers. Random, when non-nil, selects
	// them instead. Exactly one must be set.
	Frames []int
	Random *frames.RandomRange

	// Offset shifts the source clip's frame numbers, aligning screenshots
	// with a test encode that starts partway into the source.
	Offset int

	// Trim restricts the source clip to an inclusive frame window.
	Trim *frames.TrimRange

	OutputDir string
	Overlay   bool

	// Rand drives random frame selection; nil uses the process source.
	Rand *rand.Rand
}

// Result summarizes a completed run.
type Result struct {
	OutputDir   string
	Frames      []int
	Tags        tags.TagSet
	Screenshots int
}

// Run executes a screenshot run end to end. Failures are emitted as a
// reporter Error event before they propagate.
func Run(ctx context.Context, backend media.Backend, settings config.Settings, req Request, rep reporter.Reporter, log *logging.Logger) (*Result, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if log == nil {
		log = logging.Global()
	}

	result, err := run(ctx, backend, settings, req, rep, log)
	if err != nil {
		rep.Error(describeFailure(err))
		return nil, err
	}
	return result, nil
}

// describeFailure turns a run error into the reporter's error event,
// titled by the error kind when one is attached.
func describeFailure(err error) reporter.ReporterError {
	re := reporter.ReporterError{
		Title:   "Run failed",
		Message: err.Error(),
	}
	var core *errors.CoreError
	if stderrors.As(err, &core) {
		re.Title = core.Kind.String()
		switch core.Kind {
		case errors.KindConfig:
			re.Suggestion = "Check the command-line flags and configuration file"
		case errors.KindBackendUnavailable:
			re.Suggestion = "HDR sources need a backend with tonemap support, such as the FFmpeg backend"
		case errors.KindNoFilesFound:
			re.Suggestion = "Check the input directory and the video file extensions"
		}
	}
	return re
}

func run(ctx context.Context, backend media.Backend, settings config.Settings, req Request, rep reporter.Reporter, log *logging.Logger) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	kernel, err := media.ParseKernel(settings.Kernel)
	if err != nil {
		return nil, err
	}
	cacheSuffix, err := media.CacheSuffix(media.LoaderName(settings.LoadFilter))
	if err != nil {
		return nil, err
	}

	rep.SessionStarted(reporter.SessionInfo{
		Source:     req.Source,
		Encodes:    req.Encodes,
		OutputDir:  req.OutputDir,
		LoadFilter: settings.LoadFilter,
		Kernel:     settings.Kernel,
		Offset:     req.Offset,
	})

	clips, paths, err := loadClips(ctx, backend, req, cacheSuffix)
	if err != nil {
		return nil, err
	}
	hasSource := req.Source != ""

	if req.Trim != nil {
		if !hasSource {
			return nil, errors.NewConfigError("frame range trimming requires a source clip")
		}
		if err := req.Trim.Validate(); err != nil {
			return nil, err
		}
		trimmed, err := backend.Trim(clips[0], req.Trim.Start, req.Trim.End)
		if err != nil {
			return nil, err
		}
		clips[0] = trimmed
		log.Info("source trimmed", "start", req.Trim.Start, "end", req.Trim.End)
	}

	selected, err := selectFrames(req, clips, hasSource)
	if err != nil {
		return nil, err
	}

	if hasSource && len(clips) > 1 {
		if err := resizeSource(backend, clips, kernel, rep); err != nil {
			return nil, err
		}
	}

	crop := cropDimensions(req, clips, hasSource, rep)

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("creating output directory %s", req.OutputDir), err)
	}

	// The lock spans tag allocation through rendering: tags are derived
	// from the directory's file names, so a concurrent run could compute
	// a colliding set.
	lock := tags.NewRunLock(req.OutputDir)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer lock.Release()

	allocated, err := tags.Allocate(req.OutputDir, len(clips))
	if err != nil {
		return nil, err
	}
	rep.TagsAllocated(allocated)

	rep.ClipTable(clipTable(clips, paths, req.Titles, allocated))

	prepared, err := pipeline.New(backend, settings, kernel, rep, log).
		Prepare(clips, crop, req.Titles, req.Overlay)
	if err != nil {
		return nil, err
	}

	jobs := make([]render.Job, len(prepared))
	for i, clip := range prepared {
		jobFrames := selected
		if i == 0 && hasSource && req.Offset != 0 {
			jobFrames = frames.Offset(selected, req.Offset)
		}
		jobs[i] = render.Job{Clip: clip, Tag: allocated[i], Frames: jobFrames}
	}

	if err := render.New(backend, settings.RenderWorkers, rep, log).Render(ctx, jobs, req.OutputDir); err != nil {
		return nil, err
	}

	rep.OperationComplete(fmt.Sprintf("%d screenshots written to %s", len(prepared)*len(selected), req.OutputDir))
	return &Result{
		OutputDir:   req.OutputDir,
		Frames:      selected,
		Tags:        allocated,
		Screenshots: len(prepared) * len(selected),
	}, nil
}

func validate(req Request) error {
	if req.Source == "" && len(req.Encodes) == 0 {
		return errors.NewConfigError("no files or directories were provided")
	}
	if len(req.Frames) == 0 && req.Random == nil {
		return errors.NewConfigError("no frames were provided: specify explicit frames or a random frame range")
	}
	if len(req.Frames) > 0 && req.Random != nil {
		return errors.NewConfigError("explicit frames and random frames are mutually exclusive")
	}
	if req.OutputDir == "" {
		return errors.NewConfigError("no output directory was provided")
	}
	return nil
}

// loadClips loads the source (when present) followed by the encodes.
func loadClips(ctx context.Context, backend media.Backend, req Request, cacheSuffix string) ([]media.Clip, []string, error) {
	var paths []string
	if req.Source != "" {
		paths = append(paths, req.Source)
	}
	paths = append(paths, req.Encodes...)

	clips := make([]media.Clip, 0, len(paths))
	for _, path := range paths {
		clip, err := backend.Load(ctx, path, path+cacheSuffix)
		if err != nil {
			return nil, nil, err
		}
		clips = append(clips, clip)
	}
	return clips, paths, nil
}

// selectFrames resolves the frame list: explicit frames pass through,
// random selection draws from the encodes' frame counts (the source may
// be longer than its test encodes).
func selectFrames(req Request, clips []media.Clip, hasSource bool) ([]int, error) {
	if len(req.Frames) > 0 {
		return req.Frames, nil
	}

	reference := clips
	if hasSource && len(clips) > 1 {
		reference = clips[1:]
	}
	counts := make([]int, len(reference))
	for i, clip := range reference {
		counts[i] = clip.FrameCount()
	}
	return frames.Random(req.Rand, *req.Random, counts)
}

func resizeSource(backend media.Backend, clips []media.Clip, kernel media.Kernel, rep reporter.Reporter) error {
	source := geometry.Dimensions{Width: clips[0].Width(), Height: clips[0].Height()}
	encodes := make([]geometry.Dimensions, len(clips)-1)
	for i, clip := range clips[1:] {
		encodes[i] = geometry.Dimensions{Width: clip.Width(), Height: clip.Height()}
	}

	decision, err := geometry.InferResize(source, encodes, kernel)
	if err != nil {
		return err
	}
	rep.ResizeDecision(reporter.ResizeSummary{Message: decision.Message(), Required: decision.Required()})
	if !decision.Required() {
		return nil
	}

	resized, err := backend.Resize(clips[0], kernel, decision.Target.Width, decision.Target.Height, nil)
	if err != nil {
		return err
	}
	clips[0] = resized
	return nil
}

// cropDimensions picks the shared output dimensions: explicit crop, else
// the first encode's size, else the (uncropped) source size.
func cropDimensions(req Request, clips []media.Clip, hasSource bool, rep reporter.Reporter) geometry.Dimensions {
	if req.Crop != nil {
		return *req.Crop
	}

	if hasSource && len(clips) == 1 {
		rep.Warning("no crop values were provided, the source will be uncropped")
	}
	ref := clips[0]
	if hasSource && len(clips) > 1 {
		ref = clips[1]
	}
	return geometry.Dimensions{Width: ref.Width(), Height: ref.Height()}
}

func clipTable(clips []media.Clip, paths, titles []string, allocated tags.TagSet) []reporter.ClipInfo {
	rows := make([]reporter.ClipInfo, len(clips))
	for i, clip := range clips {
		label := fmt.Sprintf("Clip %d", i)
		if i < len(titles) && len(titles) == len(clips) {
			label = titles[i]
		}
		dynamicRange := "SDR"
		if props, err := clip.Props(); err == nil && colorspace.Describe(props).IsHDR() {
			dynamicRange = "HDR"
		}
		tag := ""
		if i < len(allocated) {
			tag = allocated[i]
		}
		rows[i] = reporter.ClipInfo{
			Label:        label,
			File:         filepath.Base(paths[i]),
			Resolution:   fmt.Sprintf("%dx%d", clip.Width(), clip.Height()),
			Frames:       clip.FrameCount(),
			DynamicRange: dynamicRange,
			Tag:          tag,
		}
	}
	return rows
}
