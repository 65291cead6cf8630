package ffcore

import (
	"fmt"
	"strings"

	"screengen/internal/media"
)

// placeboOptions maps tonemap wire parameters onto libplacebo filter
// options. Parameters absent from this table are rejected with a
// ParamError so the sequencer can drop them and retry; the set tracks
// what current ffmpeg libplacebo builds accept.
var placeboOptions = map[string]string{
	media.ParamToneMappingFunction:  "tonemapping",
	media.ParamDynamicPeakDetection: "peak_detect",
	media.ParamGamutMapping:         "gamut_mode",
	media.ParamDstMax:               "target_peak",
	media.ParamMinDynamicPeak:       "min_peak",
	media.ParamSmoothingPeriod:      "smoothing_period",
	media.ParamSceneThresholdLow:    "scene_threshold_low",
	media.ParamSceneThresholdHigh:   "scene_threshold_high",
	media.ParamSrcCSP:               "",
	media.ParamDstCSP:               "",
	media.ParamDstPrim:              "",
	media.ParamDstMin:               "",
	media.ParamUseDoVi:              "",
}

// srcTRC maps source colorspace hint codes onto input transfer overrides.
var srcTRC = map[int]string{
	media.SrcCSPPQ:  "pq",
	media.SrcCSPHLG: "hlg",
}

// Tonemap builds a libplacebo filter stage converting HDR luminance to
// BT.709 SDR. Unknown parameter names are reported through a ParamError
// rather than handed to ffmpeg, which would fail with a less parseable
// message at render time.
func (b *Backend) Tonemap(c media.Clip, params media.KwArgs) (media.Clip, error) {
	clip, err := asClip(c)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for name := range params {
		if _, ok := placeboOptions[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &media.ParamError{Names: unknown}
	}

	args := []string{"colorspace=bt709", "color_primaries=bt709", "color_trc=bt709"}
	for _, name := range sortedKeys(params) {
		option := placeboOptions[name]
		if option == "" {
			// Fixed by the SDR target or expressed elsewhere in the graph.
			continue
		}
		args = append(args, fmt.Sprintf("%s=%s", option, optionValue(name, params[name])))
	}

	filter := "libplacebo=" + strings.Join(args, ":")
	if hint, ok := params[media.ParamSrcCSP]; ok {
		if code, ok := hint.(int); ok {
			if trc, ok := srcTRC[code]; ok {
				filter = fmt.Sprintf("setparams=color_trc=%s,%s", trc, filter)
			}
		}
	}

	return clip.derive(filter, nil), nil
}

func optionValue(name string, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
