package media

import (
	"fmt"
	"sort"
	"strings"
)

// Wire names for tonemap parameters. Backends accept a subset of these
// depending on version; the tonemap sequencer relaxes calls by dropping
// rejected names rather than negotiating capability up front.
const (
	ParamDstCSP               = "dst_csp"
	ParamDstPrim              = "dst_prim"
	ParamDstMax               = "dst_max"
	ParamDstMin               = "dst_min"
	ParamDynamicPeakDetection = "dynamic_peak_detection"
	ParamGamutMapping         = "gamut_mapping"
	ParamToneMappingFunction  = "tone_mapping_function"
	ParamUseDoVi              = "use_dovi"
	ParamSmoothingPeriod      = "smoothing_period"
	ParamMinDynamicPeak       = "min_dynamic_peak"
	ParamSceneThresholdLow    = "scene_threshold_low"
	ParamSceneThresholdHigh   = "scene_threshold_high"
	ParamSrcCSP               = "src_csp"
)

// Source colorspace hints for ParamSrcCSP.
const (
	SrcCSPPQ  = 1
	SrcCSPHLG = 2
)

// ParamError reports backend parameters that the installed backend
// version does not accept. The message format is the contract: callers
// recover the rejected names with UnsupportedParams.
type ParamError struct {
	Names []string
}

func (e *ParamError) Error() string {
	names := append([]string(nil), e.Names...)
	sort.Strings(names)
	return fmt.Sprintf("tonemap does not take argument(s) named %s", strings.Join(names, ", "))
}

// Markers recognized in backend error text when extracting unsupported
// parameter names. Older backends use the singular form.
var unsupportedMarkers = []string{
	"does not take argument(s) named",
	"does not take argument named",
}

// UnsupportedParams parses an error's text for parameter names the
// backend rejected. It returns nil when the error does not identify any.
func UnsupportedParams(err error) []string {
	if err == nil {
		return nil
	}
	message := err.Error()

	for _, marker := range unsupportedMarkers {
		idx := strings.Index(message, marker)
		if idx < 0 {
			continue
		}
		suffix := message[idx+len(marker):]
		cleaned := strings.NewReplacer(
			"\n", " ",
			"'", "",
			`"`, "",
			"(", "",
			")", "",
		).Replace(suffix)

		var names []string
		for _, part := range strings.Split(cleaned, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		return names
	}

	return nil
}
