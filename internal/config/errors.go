// Package config provides configuration types and defaults for screengen.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidModulus indicates a crop modulus below 1.
	ErrInvalidModulus = errors.New("crop modulus out of range")

	// ErrInvalidWorkers indicates a render worker count below 1.
	ErrInvalidWorkers = errors.New("render worker count out of range")

	// ErrInvalidLuminance indicates destination peak luminance at or below
	// the destination minimum.
	ErrInvalidLuminance = errors.New("destination luminance range invalid")

	// ErrInvalidSceneThresholds indicates a low scene threshold above the
	// high threshold.
	ErrInvalidSceneThresholds = errors.New("scene thresholds inverted")

	// ErrInvalidSmoothingPeriod indicates a negative smoothing window.
	ErrInvalidSmoothingPeriod = errors.New("smoothing period invalid")
)
