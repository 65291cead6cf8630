// Package screengen prepares aligned comparison screenshots from video
// clips: a source and any number of test encodes are loaded, scaled and
// cropped onto shared dimensions, tone mapped when the material is HDR,
// and rendered to tagged image files that sort into comparison order.
//
// Basic usage:
//
//	session, err := screengen.New(
//	    screengen.WithKernel("spline36"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := session.Generate(ctx, screengen.Request{
//	    Source:    "source.mkv",
//	    Encodes:   []string{"test1.mkv", "test2.mkv"},
//	    Frames:    []int{1000, 5000, 9000},
//	    OutputDir: "screens",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("wrote %d screenshots to %s\n", result.Screenshots, result.OutputDir)
package screengen

import (
	"context"

	"screengen/internal/config"
	"screengen/internal/discovery"
	"screengen/internal/ffcore"
	"screengen/internal/frames"
	"screengen/internal/geometry"
	"screengen/internal/logging"
	"screengen/internal/media"
	"screengen/internal/processing"
	"screengen/internal/reporter"
	"screengen/internal/tags"
)

// Re-export the request/result surface so callers never import internal
// packages.
type (
	Request     = processing.Request
	Result      = processing.Result
	Settings    = config.Settings
	Dimensions  = geometry.Dimensions
	RandomRange = frames.RandomRange
	TrimRange   = frames.TrimRange
	Reporter    = reporter.Reporter
	TagSet      = tags.TagSet
)

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return config.Default()
}

// Session is the main entry point for screenshot generation.
type Session struct {
	settings config.Settings
	backend  media.Backend
	rep      reporter.Reporter
	log      *logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// New creates a Session with the given options. The default session uses
// the FFmpeg backend, spline36 resampling, and no reporter.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		settings: config.Default(),
		rep:      reporter.NullReporter{},
		log:      logging.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}
	if s.backend == nil {
		s.backend = ffcore.New()
	}
	return s, nil
}

// WithConfig replaces the default settings wholesale, typically with the
// result of LoadConfig.
func WithConfig(settings config.Settings) Option {
	return func(s *Session) {
		s.settings = settings
	}
}

// WithKernel sets the resampling kernel used for rescaling and output
// conversion. Valid kernels are bilinear, bicubic, lanczos, spline16,
// spline36, and spline64.
func WithKernel(kernel string) Option {
	return func(s *Session) {
		s.settings.Kernel = kernel
	}
}

// WithLoadFilter selects the source loader, "ffms2" or "lsmas".
func WithLoadFilter(loader string) Option {
	return func(s *Session) {
		s.settings.LoadFilter = loader
	}
}

// WithRenderWorkers sets how many frames render concurrently.
func WithRenderWorkers(n int) Option {
	return func(s *Session) {
		s.settings.RenderWorkers = n
	}
}

// WithBackend substitutes the media backend. The zero value uses FFmpeg.
func WithBackend(backend media.Backend) Option {
	return func(s *Session) {
		s.backend = backend
	}
}

// WithReporter attaches a progress reporter.
func WithReporter(rep reporter.Reporter) Option {
	return func(s *Session) {
		if rep != nil {
			s.rep = rep
		}
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (config.Settings, error) {
	return config.Load(path)
}

// Generate runs a full screenshot session and reports the output
// directory, frame list, and allocated tags.
func (s *Session) Generate(ctx context.Context, req Request) (*Result, error) {
	return processing.Run(ctx, s.backend, s.settings, req, s.rep, s.log)
}

// FindVideos lists the video files in a directory, sorted by name.
func FindVideos(dir string) ([]string, error) {
	return discovery.FindVideoFiles(dir)
}
