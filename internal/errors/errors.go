// Package errors provides structured error types for screengen operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindPath represents path-related errors.
	KindPath
	// KindConfig represents configuration validation errors, including
	// inconsistent aspect ratios and invalid flag combinations.
	KindConfig
	// KindAmbiguousRatio represents dimension pairs whose scale ratio
	// cannot be resolved to a standard resolution.
	KindAmbiguousRatio
	// KindDegenerateCrop represents crop margins that consume an entire axis.
	KindDegenerateCrop
	// KindBackendUnavailable represents HDR content detected without a
	// tonemap-capable backend.
	KindBackendUnavailable
	// KindTonemap represents a backend-raised tonemap attempt failure.
	KindTonemap
	// KindUnknownKernel represents an unrecognized resize kernel name.
	KindUnknownKernel
	// KindUnknownLoader represents an unrecognized source loader name.
	KindUnknownLoader
	// KindProbe represents media probing failures.
	KindProbe
	// KindJSONParse represents JSON parsing errors.
	KindJSONParse
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindRender represents screenshot rendering failures.
	KindRender
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindPath:
		return "Path error"
	case KindConfig:
		return "Configuration error"
	case KindAmbiguousRatio:
		return "Ambiguous resize ratio"
	case KindDegenerateCrop:
		return "Degenerate crop"
	case KindBackendUnavailable:
		return "Backend unavailable"
	case KindTonemap:
		return "Tonemap error"
	case KindUnknownKernel:
		return "Unknown kernel"
	case KindUnknownLoader:
		return "Unknown loader"
	case KindProbe:
		return "Probe error"
	case KindJSONParse:
		return "JSON parse error"
	case KindNoFilesFound:
		return "No files found"
	case KindRender:
		return "Render error"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CoreError is the main error type for screengen operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewPathError creates a new path-related error.
func NewPathError(message string) *CoreError {
	return &CoreError{Kind: KindPath, Message: message}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message}
}

// NewAmbiguousRatioError creates an error for an unresolvable scale ratio
// between a source and encode dimension pair.
func NewAmbiguousRatioError(direction string, width, height int) *CoreError {
	return &CoreError{
		Kind:    KindAmbiguousRatio,
		Message: fmt.Sprintf("unable to determine %s resizing ratio for dimensions '%dx%d'", direction, width, height),
	}
}

// NewDegenerateCropError creates an error for crop margins that leave no
// visible frame on one axis.
func NewDegenerateCropError(width, height int) *CoreError {
	return &CoreError{
		Kind:    KindDegenerateCrop,
		Message: fmt.Sprintf("crop produces non-positive dimensions %dx%d", width, height),
	}
}

// NewBackendUnavailableError creates an error for HDR content detected
// without a tonemap-capable backend.
func NewBackendUnavailableError() *CoreError {
	return &CoreError{
		Kind: KindBackendUnavailable,
		Message: "HDR content detected but the configured backend does not " +
			"support tonemapping; enable a tonemap-capable backend",
	}
}

// NewTonemapError creates a new tonemap attempt error.
func NewTonemapError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindTonemap, Message: message, Underlying: underlying}
}

// NewUnknownKernelError creates an error for an unrecognized kernel name.
func NewUnknownKernelError(name string) *CoreError {
	return &CoreError{
		Kind:    KindUnknownKernel,
		Message: fmt.Sprintf("unknown resize kernel %q", name),
	}
}

// NewUnknownLoaderError creates an error for an unrecognized loader name.
func NewUnknownLoaderError(name string) *CoreError {
	return &CoreError{
		Kind:    KindUnknownLoader,
		Message: fmt.Sprintf("unknown load filter %q, options are 'ffms2' and 'lsmas'", name),
	}
}

// NewProbeError creates a new media probing error.
func NewProbeError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbe, Message: message, Underlying: underlying}
}

// NewJSONParseError creates a new JSON parsing error.
func NewJSONParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindJSONParse, Message: message, Underlying: underlying}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewRenderError creates a new screenshot rendering error.
func NewRenderError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindRender, Message: message, Underlying: underlying}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsNoFilesFound checks if the error is a no-files-found error.
func IsNoFilesFound(err error) bool {
	return IsKind(err, KindNoFilesFound)
}
