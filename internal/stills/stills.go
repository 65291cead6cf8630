// Package stills implements the media backend over directories of still
// image frames. It is pure Go: decoding, cropping, and resizing happen
// in-process, which makes it the deterministic backend for examples and
// tests. It has no tonemap capability, so HDR batches routed to it fail
// fast on the HDR path.
package stills

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // frame decoding
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nfnt/resize"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// frameSuffixes are the still formats accepted as clip frames.
var frameSuffixes = []string{".png", ".jpg", ".jpeg"}

type op func(image.Image) (image.Image, error)

// Clip is an ordered sequence of image files plus the pending operations
// to apply when a frame is materialized.
type Clip struct {
	frames []string // file paths, one per frame
	width  int
	height int
	props  media.Props
	ops    []op
}

func (c *Clip) Width() int      { return c.width }
func (c *Clip) Height() int     { return c.height }
func (c *Clip) FrameCount() int { return len(c.frames) }

func (c *Clip) Props() (media.Props, error) {
	out := make(media.Props, len(c.props))
	for k, v := range c.props {
		out[k] = v
	}
	return out, nil
}

func (c *Clip) derive(o op, mutate func(*Clip)) *Clip {
	next := &Clip{
		frames: c.frames,
		width:  c.width,
		height: c.height,
		props:  make(media.Props, len(c.props)),
		ops:    append([]op(nil), c.ops...),
	}
	for k, v := range c.props {
		next.props[k] = v
	}
	if o != nil {
		next.ops = append(next.ops, o)
	}
	if mutate != nil {
		mutate(next)
	}
	return next
}

// materialize decodes one frame and runs the pending operations over it.
func (c *Clip) materialize(frame int) (image.Image, error) {
	data, err := os.Open(c.frames[frame])
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("opening frame %d", frame), err)
	}
	defer data.Close()

	img, _, err := image.Decode(data)
	if err != nil {
		return nil, errors.NewRenderError(fmt.Sprintf("decoding frame %s", c.frames[frame]), err)
	}
	for _, o := range c.ops {
		if img, err = o(img); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Backend processes clips loaded from still-frame directories.
type Backend struct{}

// New creates the still-frame backend.
func New() *Backend {
	return &Backend{}
}

func asClip(c media.Clip) (*Clip, error) {
	clip, ok := c.(*Clip)
	if !ok {
		return nil, errors.NewRenderError(fmt.Sprintf("clip %T does not belong to the stills backend", c), nil)
	}
	return clip, nil
}

// Load opens a directory of image frames, ordered by file name. The
// first frame's dimensions stand for the whole clip; frames are assumed
// uniform, as a clip's frames are. The cache path is unused: the
// directory listing is the index.
func (b *Backend) Load(_ context.Context, path, _ string) (media.Clip, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("reading frame directory %s", path), err)
	}

	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isFrame(entry.Name()) {
			frames = append(frames, filepath.Join(path, entry.Name()))
		}
	}
	if len(frames) == 0 {
		return nil, errors.NewNoFilesFoundError(path)
	}
	sort.Strings(frames)

	first, err := os.Open(frames[0])
	if err != nil {
		return nil, errors.NewIOError("opening first frame", err)
	}
	defer first.Close()
	cfg, _, err := image.DecodeConfig(first)
	if err != nil {
		return nil, errors.NewProbeError(fmt.Sprintf("decoding first frame of %s", path), err)
	}

	return &Clip{
		frames: frames,
		width:  cfg.Width,
		height: cfg.Height,
		props:  media.Props{},
	}, nil
}

func (b *Backend) Trim(c media.Clip, first, last int) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	if first < 0 || last < first || last >= len(clip.frames) {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"trim range [%d, %d] outside clip of %d frames", first, last, len(clip.frames)))
	}
	return clip.derive(nil, func(next *Clip) {
		next.frames = clip.frames[first : last+1]
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

	cropOp := func(img image.Image) (image.Image, error) {
		bounds := img.Bounds()
		rect := image.Rect(bounds.Min.X+left, bounds.Min.Y+top, bounds.Max.X-right, bounds.Max.Y-bottom)
		out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
		return out, nil
	}
	return clip.derive(cropOp, func(next *Clip) {
		next.width = w
		next.height = h
	}), nil
}

// interpolations maps kernel names onto the resize library's filters.
// The spline kernels approximate with Mitchell-Netravali, the closest
// cubic-spline filter the library ships.
var interpolations = map[media.Kernel]resize.InterpolationFunction{
	media.KernelBilinear: resize.Bilinear,
	media.KernelBicubic:  resize.Bicubic,
	media.KernelPoint:    resize.NearestNeighbor,
	media.KernelLanczos:  resize.Lanczos3,
	media.KernelSpline16: resize.MitchellNetravali,
	media.KernelSpline36: resize.MitchellNetravali,
	media.KernelSpline64: resize.MitchellNetravali,
}

func (b *Backend) Resize(c media.Clip, kernel media.Kernel, width, height int, _ media.KwArgs) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	interp, ok := interpolations[kernel]
	if !ok {
		return nil, errors.NewUnknownKernelError(string(kernel))
	}

	resizeOp := func(img image.Image) (image.Image, error) {
		return resize.Resize(uint(width), uint(height), img, interp), nil
	}
	return clip.derive(resizeOp, func(next *Clip) {
		next.width = width
		next.height = height
	}), nil
}

// Convert redraws frames into the requested bit depth. Still frames
// carry no transfer metadata to remap, so the tag-in fields only retag
// the clip's properties.
func (b *Backend) Convert(c media.Clip, spec media.ConvertSpec) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}

	convertOp := func(img image.Image) (image.Image, error) {
		if spec.Format == media.FormatRGB48 {
			out := image.NewRGBA64(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
			draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
			return out, nil
		}
		out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
		return out, nil
	}
	return clip.derive(convertOp, func(next *Clip) {
		applyTagIns(next.props, spec)
	}), nil
}

func applyTagIns(props media.Props, spec media.ConvertSpec) {
	if spec.MatrixIn != nil {
		props[media.PropMatrix] = *spec.MatrixIn
	}
	if spec.TransferIn != nil {
		props[media.PropTransfer] = *spec.TransferIn
	}
	if spec.PrimariesIn != nil {
		props[media.PropPrimaries] = *spec.PrimariesIn
	}
	if spec.RangeIn != nil {
		props[media.PropRange] = *spec.RangeIn
	}
}

func (b *Backend) SetProps(c media.Clip, props media.Props) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	return clip.derive(nil, func(next *Clip) {
		for k, v := range props {
			next.props[k] = v
		}
	}), nil
}

// Overlay records the title on the clip's properties. Rasterizing text
// would pull in a font stack this backend does not carry; the ffmpeg
// backend draws real overlays.
func (b *Backend) Overlay(c media.Clip, title string) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}
	return clip.derive(nil, func(next *Clip) {
		next.props["title"] = title
	}), nil
}

func (b *Backend) RenderFrame(_ context.Context, c media.Clip, frame int, path string) error {
	clip, err := asClip(c)
	if err != nil {
		return err
	}
	if frame < 0 || frame >= len(clip.frames) {
		return errors.NewRenderError(fmt.Sprintf("frame %d outside clip of %d frames", frame, len(clip.frames)), nil)
	}

	img, err := clip.materialize(frame)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("creating %s", path), err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return errors.NewRenderError(fmt.Sprintf("encoding %s", path), err)
	}
	return nil
}

func isFrame(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, suffix := range frameSuffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}
