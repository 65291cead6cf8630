package ffcore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"screengen/internal/errors"
	"screengen/internal/media"
)

// probeOutput is the subset of ffprobe's JSON this backend reads.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType      string `json:"codec_type"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NbFrames       string `json:"nb_frames"`
	AvgFrameRate   string `json:"avg_frame_rate"`
	ColorPrimaries string `json:"color_primaries"`
	ColorTransfer  string `json:"color_transfer"`
	ColorSpace     string `json:"color_space"`
	ColorRange     string `json:"color_range"`
}

// probeFunc is swappable in tests; the default shells out to ffprobe.
var probeFunc = func(path string) (string, error) {
	return ffmpeg.Probe(path)
}

// probeVideo reads the first video stream's geometry and color metadata.
func probeVideo(path string) (*probeResult, error) {
	raw, err := probeFunc(path)
	if err != nil {
		return nil, errors.NewProbeError(fmt.Sprintf("probing %s", path), err)
	}
	return parseProbe(path, raw)
}

type probeResult struct {
	Width  int
	Height int
	Frames int
	Props  media.Props
}

func parseProbe(path, raw string) (*probeResult, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, errors.NewJSONParseError(fmt.Sprintf("parsing probe output for %s", path), err)
	}

	var video *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			video = &out.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, errors.NewProbeError(fmt.Sprintf("no video stream found in %s", path), nil)
	}
	if video.Width <= 0 || video.Height <= 0 {
		return nil, errors.NewProbeError(
			fmt.Sprintf("invalid dimensions in %s: %dx%d", path, video.Width, video.Height), nil)
	}

	frames := frameCount(video, out.Format.Duration)
	if frames <= 0 {
		return nil, errors.NewProbeError(fmt.Sprintf("cannot determine frame count for %s", path), nil)
	}

	return &probeResult{
		Width:  video.Width,
		Height: video.Height,
		Frames: frames,
		Props:  colorProps(video),
	}, nil
}

// frameCount prefers the container's nb_frames and falls back to frame
// rate times duration when the container does not carry a count.
func frameCount(video *probeStream, duration string) int {
	if video.NbFrames != "" && video.NbFrames != "0" {
		if n, err := strconv.Atoi(video.NbFrames); err == nil {
			return n
		}
	}

	rate := parseRate(video.AvgFrameRate)
	if rate <= 0 || duration == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(duration, 64)
	if err != nil {
		return 0
	}
	return int(rate * secs)
}

func parseRate(rate string) float64 {
	parts := strings.Split(rate, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}

// colorProps translates ffprobe's color metadata names to the integer
// codes used throughout. Unknown or missing names leave the field absent,
// which downstream classification treats as non-HDR.
func colorProps(video *probeStream) media.Props {
	props := media.Props{}
	if code, ok := transferCodes[video.ColorTransfer]; ok {
		props[media.PropTransfer] = code
	}
	if code, ok := primariesCodes[video.ColorPrimaries]; ok {
		props[media.PropPrimaries] = code
	}
	if code, ok := matrixCodes[video.ColorSpace]; ok {
		props[media.PropMatrix] = code
	}
	if code, ok := rangeCodes[video.ColorRange]; ok {
		props[media.PropRange] = code
	}
	return props
}

// Integer codes per ITU-T H.273, keyed by ffprobe's metadata names.
var (
	transferCodes = map[string]int{
		"bt709":        1,
		"bt470bg":      5,
		"smpte170m":    6,
		"linear":       8,
		"iec61966-2-1": 13,
		"smpte2084":    16,
		"arib-std-b67": 18,
	}
	primariesCodes = map[string]int{
		"bt709":     1,
		"bt470bg":   5,
		"smpte170m": 6,
		"bt2020":    9,
	}
	matrixCodes = map[string]int{
		"gbr":       0,
		"rgb":       0,
		"bt709":     1,
		"bt470bg":   5,
		"smpte170m": 6,
		"bt2020nc":  9,
		"bt2020c":   10,
	}
	rangeCodes = map[string]int{
		"pc":      0,
		"full":    0,
		"tv":      1,
		"limited": 1,
	}
)
