// Package ffcore implements the media backend on top of ffmpeg. Clips
// are lazy: transformations accumulate a filter chain, and pixels are
// only computed when RenderFrame builds and runs the ffmpeg command for
// one selected frame.
package ffcore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// Clip is a lazily evaluated ffmpeg filter chain over a source file.
type Clip struct {
	path    string
	width   int
	height  int
	frames  int
	start   int // absolute frame of this clip's frame 0 after trims
	props   media.Props
	filters []string
}

func (c *Clip) Width() int      { return c.width }
func (c *Clip) Height() int     { return c.height }
func (c *Clip) FrameCount() int { return c.frames }

func (c *Clip) Props() (media.Props, error) {
	out := make(media.Props, len(c.props))
	for k, v := range c.props {
		out[k] = v
	}
	return out, nil
}

// FilterChain returns the accumulated -vf chain, for diagnostics.
func (c *Clip) FilterChain() string {
	return strings.Join(c.filters, ",")
}

func (c *Clip) derive(filter string, mutate func(*Clip)) *Clip {
	next := &Clip{
		path:   c.path,
		width:  c.width,
		height: c.height,
		frames: c.frames,
		start:  c.start,
		props:  make(media.Props, len(c.props)),
	}
	for k, v := range c.props {
		next.props[k] = v
	}
	next.filters = append([]string(nil), c.filters...)
	if filter != "" {
		next.filters = append(next.filters, filter)
	}
	if mutate != nil {
		mutate(next)
	}
	return next
}

// Backend runs all pixel work through ffmpeg.
type Backend struct{}

// New creates the ffmpeg-backed media backend.
func New() *Backend {
	return &Backend{}
}

func asClip(c media.Clip) (*Clip, error) {
	clip, ok := c.(*Clip)
	if !ok {
		return nil, errors.NewRenderError(fmt.Sprintf("clip %T does not belong to the ffmpeg backend", c), nil)
	}
	return clip, nil
}

// Load probes the file and returns a clip with no filters applied. The
// cache path is accepted for loader parity; ffmpeg seeks by frame number
// and keeps no index of its own.
func (b *Backend) Load(_ context.Context, path, _ string) (media.Clip, error) {
	result, err := probeVideo(path)
	if err != nil {
		return nil, err
	}
	return &Clip{
		path:   path,
		width:  result.Width,
		height: result.Height,
		frames: result.Frames,
		props:  result.Props,
	}, nil
}

func (b *Backend) Trim(c media.Clip, first, last int) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	if first < 0 || last < first || last >= clip.frames {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"trim range [%d, %d] outside clip of %d frames", first, last, clip.frames))
	}
	return clip.derive("", func(next *Clip) {
		next.start += first
		next.frames = last - first + 1
	}), nil
}

func (b *Backend) Crop(c media.Clip, left, right, top, bottom int) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	w := clip.width - left - right
	h := clip.height - top - bottom
	if w <= 0 || h <= 0 {
		return nil, errors.NewDegenerateCropError(w, h)
	}
	return clip.derive(fmt.Sprintf("crop=%d:%d:%d:%d", w, h, left, top), func(next *Clip) {
		next.width = w
		next.height = h
	}), nil
}

// swsFlags maps kernel names onto ffmpeg's scaler flags. The three
// spline kernels share ffmpeg's single spline implementation.
var swsFlags = map[media.Kernel]string{
	media.KernelBilinear: "bilinear",
	media.KernelBicubic:  "bicubic",
	media.KernelPoint:    "neighbor",
	media.KernelLanczos:  "lanczos",
	media.KernelSpline16: "spline",
	media.KernelSpline36: "spline",
	media.KernelSpline64: "spline",
}

func (b *Backend) Resize(c media.Clip, kernel media.Kernel, width, height int, opts media.KwArgs) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	flags, ok := swsFlags[kernel]
	if !ok {
		return nil, errors.NewUnknownKernelError(string(kernel))
	}

	args := []string{fmt.Sprintf("%d:%d", width, height), "flags=" + flags}
	for _, key := range sortedKeys(opts) {
		args = append(args, fmt.Sprintf("%s=%v", key, opts[key]))
	}
	return clip.derive("scale="+strings.Join(args, ":"), func(next *Clip) {
		next.width = width
		next.height = height
	}), nil
}

// pixelFormats maps the display formats onto ffmpeg pixel format names.
var pixelFormats = map[media.Format]string{
	media.FormatRGB24: "rgb24",
	media.FormatRGB48: "rgb48le",
}

func (b *Backend) Convert(c media.Clip, spec media.ConvertSpec) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	pixFmt, ok := pixelFormats[spec.Format]
	if !ok {
		return nil, errors.NewRenderError(fmt.Sprintf("unsupported pixel format %v", spec.Format), nil)
	}

	// zscale performs the color-managed part; tag-in fields override the
	// stream metadata when the caller knows better than the container.
	args := []string{"filter=" + zscaleFilter(spec.Kernel)}
	if name, ok := zscaleName(transferNames, spec.TransferIn); ok {
		args = append(args, "transferin="+name)
	}
	if name, ok := zscaleName(primariesNames, spec.PrimariesIn); ok {
		args = append(args, "primariesin="+name)
	}
	if name, ok := zscaleName(matrixNames, spec.MatrixIn); ok {
		args = append(args, "matrixin="+name)
	}
	if name, ok := zscaleName(rangeNames, spec.RangeIn); ok {
		args = append(args, "rangein="+name)
	}
	if spec.Dither != "" {
		args = append(args, "dither="+spec.Dither)
	}

	filter := "zscale=" + strings.Join(args, ":") + ",format=" + pixFmt
	return clip.derive(filter, nil), nil
}

// zscale option names keyed by H.273 integer code.
var (
	transferNames  = map[int]string{1: "709", 6: "601", 8: "linear", 13: "iec61966-2-1", 16: "smpte2084", 18: "arib-std-b67"}
	primariesNames = map[int]string{1: "709", 5: "470bg", 6: "170m", 9: "2020"}
	matrixNames    = map[int]string{0: "rgb", 1: "709", 5: "470bg", 6: "170m", 9: "2020_ncl", 10: "2020_cl"}
	rangeNames     = map[int]string{0: "full", 1: "limited"}
)

func zscaleName(table map[int]string, code *int) (string, bool) {
	if code == nil {
		return "", false
	}
	name, ok := table[*code]
	return name, ok
}

// zscaleFilter maps resampling kernels onto zscale's resizer names.
func zscaleFilter(kernel media.Kernel) string {
	switch kernel {
	case media.KernelBilinear:
		return "bilinear"
	case media.KernelBicubic:
		return "bicubic"
	case media.KernelPoint:
		return "point"
	case media.KernelLanczos:
		return "lanczos"
	case media.KernelSpline16:
		return "spline16"
	case media.KernelSpline64:
		return "spline64"
	default:
		return "spline36"
	}
}

func (b *Backend) SetProps(c media.Clip, props media.Props) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	return clip.derive("", func(next *Clip) {
		for k, v := range props {
			next.props[k] = v
		}
	}), nil
}

func (b *Backend) Overlay(c media.Clip, title string) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	text := strings.NewReplacer(`\`, `\\`, "'", `\'`, ":", `\:`).Replace(title)
	filter := fmt.Sprintf(
		"drawtext=text='%s frame %%{n}':x=10:y=10:fontsize=24:fontcolor=white:borderw=2:bordercolor=black",
		text)
	return clip.derive(filter, nil), nil
}

// RenderFrame builds and runs the ffmpeg command for one frame: select
// the absolute frame number, apply the accumulated chain, write a single
// image.
func (b *Backend) RenderFrame(ctx context.Context, c media.Clip, frame int, path string) error {
	clip, err := asClip(c)
	if err != nil {
		return err
	}
	if frame < 0 || frame >= clip.frames {
		return errors.NewRenderError(fmt.Sprintf("frame %d outside clip of %d frames", frame, clip.frames), nil)
	}

	chain := make([]string, 0, len(clip.filters)+1)
	chain = append(chain, fmt.Sprintf(`select=eq(n\,%d)`, clip.start+frame))
	chain = append(chain, clip.filters...)

	cmd := ffmpeg.Input(clip.path).
		Output(path, ffmpeg.KwArgs{
			"vf":       strings.Join(chain, ","),
			"frames:v": 1,
			"vsync":    0,
		}).
		OverWriteOutput().
		Silent(true)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		return errors.NewRenderError(fmt.Sprintf("rendering frame %d of %s", frame, clip.path), err)
	}
	return nil
}

func sortedKeys(args media.KwArgs) []string {
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
