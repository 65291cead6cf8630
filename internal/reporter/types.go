// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// summaryRounding is the display granularity for elapsed times.
const summaryRounding = 10 * time.Millisecond

// SessionInfo describes a screenshot run before preparation begins.
type SessionInfo struct {
	Source     string
	Encodes    []string
	OutputDir  string
	LoadFilter string
	Kernel     string
	Offset     int
}

// ClipInfo is one row of the clip summary table.
type ClipInfo struct {
	Label        string
	File         string
	Resolution   string
	Frames       int
	DynamicRange string
	Tag          string
}

// ResizeSummary contains the resize inference outcome.
type ResizeSummary struct {
	Message  string
	Required bool
}

// CropSummary contains the computed crop margins.
type CropSummary struct {
	Message string
}

// TonemapAttemptInfo describes one failed tonemap attempt.
type TonemapAttemptInfo struct {
	ClipIndex int
	Attempt   int
	Stage     string
	Reason    string
}

// TonemapAppliedInfo describes a successful tonemap.
type TonemapAppliedInfo struct {
	ClipIndex   int
	Function    string
	DynamicPeak bool
	DstMax      float64
}

// TonemapFallbackInfo describes a clip degraded to direct SDR conversion.
type TonemapFallbackInfo struct {
	ClipIndex int
	Reason    string
}

// RenderSummary contains final rendering results.
type RenderSummary struct {
	Screenshots int
	OutputDir   string
	Elapsed     time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Suggestion string
}
