// Package config provides configuration types and defaults for screengen.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// Default constants
const (
	// DefaultKernel is the resampling kernel used for rescaling and
	// format finalization.
	DefaultKernel = "spline36"

	// DefaultLoadFilter is the source loader used to open and index clips.
	DefaultLoadFilter = "ffms2"

	// DefaultCropModulus is the alignment required of crop margins.
	DefaultCropModulus = 2

	// DefaultRenderWorkers is the number of frames rendered concurrently.
	DefaultRenderWorkers = 4

	// DefaultTonemapFunction is the libplacebo tone-mapping function.
	DefaultTonemapFunction = "bt2390"

	// DefaultDstMax is the destination peak luminance in nits.
	DefaultDstMax = 120.0

	// DefaultDstMin is the destination minimum luminance in nits.
	DefaultDstMin = 0.1

	// DefaultDynamicPeakDetection enables per-scene peak detection.
	DefaultDynamicPeakDetection = true

	// DefaultGamutMapping is the gamut-mapping mode.
	DefaultGamutMapping = 1

	// DefaultSmoothingPeriod is the scene-change smoothing window in frames.
	DefaultSmoothingPeriod = 200

	// DefaultMinDynamicPeak is the lower bound for detected dynamic peaks.
	DefaultMinDynamicPeak = 1.0

	// DefaultSceneThresholdLow is the low scene-change detection threshold.
	DefaultSceneThresholdLow = 1.8

	// DefaultSceneThresholdHigh is the high scene-change detection threshold.
	DefaultSceneThresholdHigh = 5.0
)

// VideoSuffixes lists the container extensions treated as comparable clips.
var VideoSuffixes = []string{".mp4", ".mkv", ".m2ts", ".ts"}

// TonemapSettings is the process-wide tonemap configuration. It is read
// only after construction; per-clip variation happens in the attempt plan,
// never by mutating these values.
type TonemapSettings struct {
	Function             string  `toml:"function"`
	DstMax               float64 `toml:"dst_max"`
	DstMin               float64 `toml:"dst_min"`
	DynamicPeakDetection bool    `toml:"dynamic_peak_detection"`
	GamutMapping         int     `toml:"gamut_mapping"`
	SmoothingPeriod      int     `toml:"smoothing_period"`
	MinDynamicPeak       float64 `toml:"min_dynamic_peak"`
	SceneThresholdLow    float64 `toml:"scene_threshold_low"`
	SceneThresholdHigh   float64 `toml:"scene_threshold_high"`
}

// Settings contains the full screengen configuration.
type Settings struct {
	Kernel        string          `toml:"kernel"`
	LoadFilter    string          `toml:"load_filter"`
	CropModulus   int             `toml:"crop_modulus"`
	RenderWorkers int             `toml:"render_workers"`
	Tonemap       TonemapSettings `toml:"tonemap"`
}

// Default returns the settings used when no configuration file is given.
func Default() Settings {
	return Settings{
		Kernel:        DefaultKernel,
		LoadFilter:    DefaultLoadFilter,
		CropModulus:   DefaultCropModulus,
		RenderWorkers: DefaultRenderWorkers,
		Tonemap: TonemapSettings{
			Function:             DefaultTonemapFunction,
			DstMax:               DefaultDstMax,
			DstMin:               DefaultDstMin,
			DynamicPeakDetection: DefaultDynamicPeakDetection,
			GamutMapping:         DefaultGamutMapping,
			SmoothingPeriod:      DefaultSmoothingPeriod,
			MinDynamicPeak:       DefaultMinDynamicPeak,
			SceneThresholdLow:    DefaultSceneThresholdLow,
			SceneThresholdHigh:   DefaultSceneThresholdHigh,
		},
	}
}

// Load reads a TOML configuration file over the defaults. Keys absent
// from the file keep their default values.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.NewIOError(fmt.Sprintf("reading config file %s", path), err)
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.NewConfigError(fmt.Sprintf("parsing config file %s: %v", path, err))
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks the settings for internally inconsistent values.
func (s Settings) Validate() error {
	if _, err := media.ParseKernel(s.Kernel); err != nil {
		return err
	}
	if _, err := media.CacheSuffix(media.LoaderName(s.LoadFilter)); err != nil {
		return err
	}
	if s.CropModulus < 1 {
		return fmt.Errorf("crop_modulus %d: %w", s.CropModulus, ErrInvalidModulus)
	}
	if s.RenderWorkers < 1 {
		return fmt.Errorf("render_workers %d: %w", s.RenderWorkers, ErrInvalidWorkers)
	}
	if s.Tonemap.DstMax <= s.Tonemap.DstMin {
		return fmt.Errorf("dst_max %.2f <= dst_min %.2f: %w", s.Tonemap.DstMax, s.Tonemap.DstMin, ErrInvalidLuminance)
	}
	if s.Tonemap.SceneThresholdLow > s.Tonemap.SceneThresholdHigh {
		return fmt.Errorf("scene thresholds %.2f > %.2f: %w",
			s.Tonemap.SceneThresholdLow, s.Tonemap.SceneThresholdHigh, ErrInvalidSceneThresholds)
	}
	if s.Tonemap.SmoothingPeriod < 0 {
		return fmt.Errorf("smoothing_period %d: %w", s.Tonemap.SmoothingPeriod, ErrInvalidSmoothingPeriod)
	}
	return nil
}
